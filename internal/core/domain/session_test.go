package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepFlow(t *testing.T) {
	tests := []struct {
		step  Step
		flow  string
		admin bool
	}{
		{StepIdle, "", false},
		{StepCardPhoto, "card", true},
		{StepEditConfirm, "edit", true},
		{StepDeleteID, "delete", true},
		{StepNewsletterPhoto, "newsletter", true},
		{StepFilter, "filter", false},
		{StepReviewRating, "review", false},
		{StepProfileEmail, "profile", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.step), func(t *testing.T) {
			assert.Equal(t, tt.flow, tt.step.Flow())
			assert.Equal(t, tt.admin, tt.step.AdminFlow())
		})
	}
}

func TestResetFlowKeepsPager(t *testing.T) {
	s := Session{
		Step:       StepReviewText,
		Review:     &ReviewDraft{},
		Filter:     NewFilterDraft(),
		Browse:     &BrowseState{Mode: BrowseSearch, Properties: []Property{{ID: 1}}},
		MessageIDs: []int{5, 6},
	}
	s.ResetFlow()

	assert.False(t, s.Active())
	assert.Nil(t, s.Review)
	assert.Nil(t, s.Filter)
	require.NotNil(t, s.Browse)
	assert.Equal(t, []int{5, 6}, s.MessageIDs)
}

func TestSessionEmpty(t *testing.T) {
	s := Session{Step: StepFilter, Filter: NewFilterDraft()}
	assert.False(t, s.Empty())

	s.ResetFlow()
	assert.True(t, s.Empty())

	s.MessageIDs = []int{7}
	assert.False(t, s.Empty())
}

func TestBrowseStateCurrent(t *testing.T) {
	var empty *BrowseState
	_, ok := empty.Current()
	assert.False(t, ok)

	b := &BrowseState{Properties: []Property{{ID: 1}, {ID: 2}}, Page: 1}
	p, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, int64(2), p.ID)

	b.Page = 2
	_, ok = b.Current()
	assert.False(t, ok)
}

func TestPhotoRefRetrievable(t *testing.T) {
	tests := []struct {
		ref  PhotoRef
		want bool
	}{
		{"", false},
		{"   ", false},
		{"https://example.com/a.jpg", true},
		{"http://", false},
		{"AgACAgIAAxkBAAIBZ2Z_file_id_value", true},
		{"short", false},
		{"not a file id with spaces", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ref.Retrievable(), string(tt.ref))
	}
}

func TestRetrievablePhotosKeepsSlotOrder(t *testing.T) {
	var p Property
	p.Photos[0] = "https://example.com/1.jpg"
	p.Photos[3] = "bad"
	p.Photos[8] = "https://example.com/9.jpg"

	assert.Equal(t, []PhotoRef{"https://example.com/1.jpg", "https://example.com/9.jpg"}, p.RetrievablePhotos())
}

func TestFieldChangeAssignments(t *testing.T) {
	cols, vals, err := FieldChange{Field: FieldCoordinates, Coordinates: &Coordinates{Latitude: 9.5, Longitude: 100}}.Assignments()
	require.NoError(t, err)
	assert.Equal(t, []string{"latitude", "longitude"}, cols)
	assert.Equal(t, []any{9.5, 100.0}, vals)

	cols, vals, err = FieldChange{Field: "photo2"}.Assignments()
	require.NoError(t, err)
	assert.Equal(t, []string{"photo2"}, cols)
	assert.Equal(t, []any{nil}, vals)

	_, vals, err = FieldChange{Field: "name", Text: "Villa"}.Assignments()
	require.NoError(t, err)
	assert.Equal(t, []any{"Villa"}, vals)

	_, _, err = FieldChange{Field: "owner"}.Assignments()
	assert.ErrorIs(t, err, ErrUnknownEditField)
}

func TestEditFieldsGrid(t *testing.T) {
	fields := EditFields()
	require.Len(t, fields, 1+PhotoSlots+15)
	assert.Equal(t, EditField("name"), fields[0].Field)

	spec, ok := LookupEditField("photo9")
	require.True(t, ok)
	assert.Equal(t, FieldInputPhoto, spec.Input)
	assert.Equal(t, 9, spec.PhotoSlot)

	_, err := ParseEditField("owner")
	assert.ErrorIs(t, err, ErrUnknownEditField)
}

package usecase

import (
	"testing"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_StartRegistersUser(t *testing.T) {
	b := newTestBot(t)
	b.sendAll(t, userID, "/start")

	u, ok := b.users.rows[userID]
	require.True(t, ok)
	assert.Equal(t, "tester", u.Username)
	assert.False(t, u.LastActivity.IsZero())

	last := b.messenger.last()
	assert.Equal(t, constants.TextWelcome, last.Text)
	assert.True(t, hasInlineButton(last.Markup, domain.KindSubscribe))
}

func TestProfile_SubscriptionToggle(t *testing.T) {
	b := newTestBot(t)
	b.sendAll(t, userID, "/start")

	assert.Equal(t, constants.TextSubscribed, b.press(t, userID, domain.Callback{Kind: domain.KindSubscribe}))
	assert.True(t, b.users.rows[userID].NotificationsEnabled)
	edit := b.messenger.edits[len(b.messenger.edits)-1]
	assert.True(t, hasInlineButton(edit.Markup, domain.KindUnsubscribe))

	assert.Equal(t, constants.TextUnsubscribed, b.press(t, userID, domain.Callback{Kind: domain.KindUnsubscribe}))
	assert.False(t, b.users.rows[userID].NotificationsEnabled)
}

func TestProfile_EmailFlow(t *testing.T) {
	b := newTestBot(t)
	b.sendAll(t, userID, "/start")
	b.press(t, userID, domain.Callback{Kind: domain.KindSetEmail})
	assert.Equal(t, domain.StepProfileEmail, b.session(t, userID).Step)

	b.sendAll(t, userID, "not-an-email")
	assert.Equal(t, constants.TextBadEmail, b.messenger.last().Text)

	b.sendAll(t, userID, "guest@samui.co")
	assert.Equal(t, domain.StepProfileEmailConfirm, b.session(t, userID).Step)
	b.sendAll(t, userID, "Да")

	assert.Equal(t, "guest@samui.co", b.users.rows[userID].Email)
	assert.Equal(t, constants.TextEmailSaved, b.messenger.last().Text)
	assert.False(t, b.session(t, userID).Active())
}

func TestProfile_ShowAndSharePhone(t *testing.T) {
	b := newTestBot(t)
	b.sendAll(t, userID, "/start")

	b.press(t, userID, domain.Callback{Kind: domain.KindProfile})
	sent := b.messenger.sentTo(userID)
	require.GreaterOrEqual(t, len(sent), 2)
	profile := sent[len(sent)-2]
	assert.Contains(t, profile.Text, "Email: "+constants.TextNotSet)
	share := sent[len(sent)-1]
	require.NotNil(t, share.Markup)
	assert.True(t, share.Markup.Reply[0][0].RequestContact)

	b.deliver(t, domain.Update{Kind: domain.UpdateContact, ChatID: userID, UserID: userID, Phone: "+66 81 234 5678"})
	assert.Equal(t, "+66 81 234 5678", b.users.rows[userID].Phone)
	assert.Equal(t, constants.TextPhoneSaved, b.messenger.last().Text)
}

func TestValidEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.co":          true,
		"guest@samui.com": true,
		"@samui.com":      false,
		"guest@samui":     false,
		"gu est@samui.co": false,
		"a@b":             false,
	}
	for in, want := range cases {
		assert.Equal(t, want, validEmail(in), in)
	}
}

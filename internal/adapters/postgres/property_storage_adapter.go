package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/pkg/postgres"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Список колонок, записываемых при создании карточки, в порядке VALUES
var insertColumns = []string{
	"name",
	"photo1", "photo2", "photo3", "photo4", "photo5", "photo6", "photo7", "photo8", "photo9",
	"location", "latitude", "longitude", "distance_to_sea", "property_type",
	"monthly_price", "daily_price", "booking_deposit_fixed", "security_deposit",
	"bedrooms", "bathrooms", "pool", "kitchen", "cleaning", "description", "utility_bill",
}

// Колонки, читаемые для карточки. Средний рейтинг считается по одобренным отзывам.
const selectProperty = `
	SELECT p.property_id, p.name,
	       p.photo1, p.photo2, p.photo3, p.photo4, p.photo5, p.photo6, p.photo7, p.photo8, p.photo9,
	       p.location, p.latitude, p.longitude, p.distance_to_sea, p.property_type,
	       p.monthly_price, p.daily_price, p.booking_deposit_fixed, p.security_deposit,
	       p.bedrooms, p.bathrooms, p.pool, p.kitchen, p.cleaning, p.description, p.utility_bill,
	       p.created_at, p.notified,
	       (SELECT AVG(r.rating)::float8 FROM reviews r
	         WHERE r.property_id = p.property_id AND r.approved AND r.rating IS NOT NULL) AS avg_rating
	FROM properties p`

// Числовое значение цены, хранящейся как текст ("1.200.000 ฿" -> 1200000).
// После удаления всего, кроме цифр, приведение к numeric не может упасть.
const numericPrice = `NULLIF(regexp_replace(COALESCE(p.%s, ''), '[^0-9]', '', 'g'), '')::numeric`

// PostgresPropertyRepository реализует PropertyStoragePort и DigestSourcePort для PostgreSQL.
type PostgresPropertyRepository struct {
	db  postgres.Executor
	log *zap.Logger
}

// NewPostgresPropertyRepository создает новый экземпляр адаптера.
func NewPostgresPropertyRepository(db postgres.Executor, log *zap.Logger) (*PostgresPropertyRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("postgres property repository: db cannot be nil")
	}
	return &PostgresPropertyRepository{db: db, log: log.Named("property_repo")}, nil
}

// Create вставляет карточку одним INSERT. Пустые поля записываются как NULL.
func (r *PostgresPropertyRepository) Create(ctx context.Context, p domain.Property) (int64, error) {
	placeholders := make([]string, len(insertColumns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	values := []any{nullText(p.Name)}
	for _, ph := range p.Photos {
		values = append(values, nullText(string(ph)))
	}
	values = append(values,
		nullText(p.Location), p.Latitude, p.Longitude, nullText(p.DistanceToSea), nullText(p.PropertyType),
		nullText(p.MonthlyPrice), nullText(p.DailyPrice), nullText(p.BookingDeposit), nullText(p.SecurityDeposit),
		p.Bedrooms, p.Bathrooms, nullText(p.Pool), nullText(p.Kitchen), nullText(p.Cleaning),
		nullText(p.Description), nullText(p.UtilityBill),
	)

	sql := fmt.Sprintf(
		`INSERT INTO properties (%s) VALUES (%s) RETURNING property_id`,
		strings.Join(insertColumns, ", "),
		strings.Join(placeholders, ", "),
	)

	var id int64
	if err := r.db.FetchOne(ctx, sql, values...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert property %q: %w", p.Name, err)
	}
	r.log.Info("PostgresPropertyRepo: Property created", zap.Int64("property_id", id), zap.String("name", p.Name))
	return id, nil
}

// GetByID читает карточку по идентификатору.
func (r *PostgresPropertyRepository) GetByID(ctx context.Context, id int64) (domain.Property, error) {
	rows, err := r.db.FetchAll(ctx, selectProperty+` WHERE p.property_id = $1`, id)
	if err != nil {
		return domain.Property{}, fmt.Errorf("error querying property %d: %w", id, err)
	}
	props, err := collectProperties(rows)
	if err != nil {
		return domain.Property{}, fmt.Errorf("error reading property %d: %w", id, err)
	}
	if len(props) == 0 {
		return domain.Property{}, fmt.Errorf("property %d: %w", id, domain.ErrNotFound)
	}
	return props[0], nil
}

// GetByIDs читает карточки и возвращает их в порядке ids. Отсутствующие пропускаются.
func (r *PostgresPropertyRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.FetchAll(ctx, selectProperty+` WHERE p.property_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("error querying properties %v: %w", ids, err)
	}
	props, err := collectProperties(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Property, len(props))
	for _, p := range props {
		byID[p.ID] = p
	}
	ordered := make([]domain.Property, 0, len(props))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// Update меняет одно поле (или пару колонок для координат) по идентификатору.
// Имена колонок берутся только из списка редактируемых полей.
func (r *PostgresPropertyRepository) Update(ctx context.Context, id int64, change domain.FieldChange) error {
	columns, values, err := change.Assignments()
	if err != nil {
		return err
	}

	sets := make([]string, len(columns))
	for i, col := range columns {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	values = append(values, id)
	sql := fmt.Sprintf(`UPDATE properties SET %s WHERE property_id = $%d`, strings.Join(sets, ", "), len(values))

	affected, err := r.db.Execute(ctx, sql, values...)
	if err != nil {
		return fmt.Errorf("failed to update %s of property %d: %w", change.Field, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("property %d: %w", id, domain.ErrNotFound)
	}
	r.log.Info("PostgresPropertyRepo: Property updated", zap.Int64("property_id", id), zap.String("field", string(change.Field)))
	return nil
}

// Delete удаляет карточку. Избранное и отзывы удаляются каскадно.
func (r *PostgresPropertyRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.db.Execute(ctx, `DELETE FROM properties WHERE property_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("property %d: %w", id, domain.ErrNotFound)
	}
	r.log.Info("PostgresPropertyRepo: Property deleted", zap.Int64("property_id", id))
	return nil
}

// Search выполняет поиск по собранному фильтру.
func (r *PostgresPropertyRepository) Search(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	where, args := BuildFilterQuery(filter)
	sql := selectProperty + ` WHERE ` + where + ` ORDER BY p.created_at DESC, p.property_id DESC`

	r.log.Debug("PostgresPropertyRepo: Searching", zap.String("where", where), zap.Int("args", len(args)))
	rows, err := r.db.FetchAll(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error searching properties: %w", err)
	}
	return collectProperties(rows)
}

// BuildFilterQuery собирает условие WHERE только из непустых групп фильтра.
// Внутри группы условия объединяются через OR, группы - через AND.
func BuildFilterQuery(f domain.PropertyFilter) (string, []any) {
	var clauses []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if len(f.Types) > 0 {
		group := make([]string, len(f.Types))
		for i, t := range f.Types {
			group[i] = "p.property_type ILIKE " + next(t)
		}
		clauses = append(clauses, "("+strings.Join(group, " OR ")+")")
	}
	if len(f.Districts) > 0 {
		group := make([]string, len(f.Districts))
		for i, d := range f.Districts {
			group[i] = "p.location ILIKE '%' || " + next(d) + " || '%'"
		}
		clauses = append(clauses, "("+strings.Join(group, " OR ")+")")
	}
	if f.MinBedrooms != nil {
		clauses = append(clauses, "p.bedrooms >= "+next(*f.MinBedrooms))
	}
	if f.MinBathrooms != nil {
		clauses = append(clauses, "p.bathrooms >= "+next(*f.MinBathrooms))
	}

	column := "monthly_price"
	if f.Daily {
		column = "daily_price"
	}
	price := fmt.Sprintf(numericPrice, column)
	if f.Price != nil {
		clauses = append(clauses, fmt.Sprintf("%s BETWEEN %s AND %s", price, next(f.Price.Min), next(f.Price.Max)))
	} else {
		clauses = append(clauses, fmt.Sprintf("(%s IS NULL OR %s <= %s)", price, price, next(float64(domain.DefaultPriceCeiling))))
	}

	return strings.Join(clauses, " AND "), args
}

// ListSummaries возвращает ID и названия всех карточек.
func (r *PostgresPropertyRepository) ListSummaries(ctx context.Context) ([]domain.PropertySummary, error) {
	rows, err := r.db.FetchAll(ctx, `SELECT property_id, COALESCE(name, '') FROM properties ORDER BY property_id`)
	if err != nil {
		return nil, fmt.Errorf("error listing properties: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PropertySummary, error) {
		var s domain.PropertySummary
		err := row.Scan(&s.ID, &s.Name)
		return s, err
	})
}

// TopRated возвращает карточки с наибольшим средним рейтингом одобренных отзывов.
func (r *PostgresPropertyRepository) TopRated(ctx context.Context, limit int) ([]domain.Property, error) {
	sql := `SELECT * FROM (` + selectProperty + `) t
	        WHERE t.avg_rating IS NOT NULL
	        ORDER BY t.avg_rating DESC, t.property_id
	        LIMIT $1`
	rows, err := r.db.FetchAll(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying top rated properties: %w", err)
	}
	return collectProperties(rows)
}

// UnnotifiedSince возвращает новые карточки, о которых еще не рассылался дайджест.
func (r *PostgresPropertyRepository) UnnotifiedSince(ctx context.Context, since time.Time) ([]domain.Property, error) {
	rows, err := r.db.FetchAll(ctx,
		selectProperty+` WHERE p.created_at >= $1 AND NOT p.notified ORDER BY p.created_at`, since)
	if err != nil {
		return nil, fmt.Errorf("error querying unnotified properties: %w", err)
	}
	return collectProperties(rows)
}

// MarkNotified помечает карточки как разосланные.
func (r *PostgresPropertyRepository) MarkNotified(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.db.Execute(ctx, `UPDATE properties SET notified = TRUE WHERE property_id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("failed to mark properties notified: %w", err)
	}
	return nil
}

type propertyRow struct {
	ID              int64
	Name            *string
	Photos          [domain.PhotoSlots]*string
	Location        *string
	Latitude        *float64
	Longitude       *float64
	DistanceToSea   *string
	PropertyType    *string
	MonthlyPrice    *string
	DailyPrice      *string
	BookingDeposit  *string
	SecurityDeposit *string
	Bedrooms        *int64
	Bathrooms       *int64
	Pool            *string
	Kitchen         *string
	Cleaning        *string
	Description     *string
	UtilityBill     *string
	CreatedAt       time.Time
	Notified        bool
	AvgRating       *float64
}

func scanProperty(row pgx.CollectableRow) (domain.Property, error) {
	var pr propertyRow
	dest := []any{&pr.ID, &pr.Name}
	for i := range pr.Photos {
		dest = append(dest, &pr.Photos[i])
	}
	dest = append(dest,
		&pr.Location, &pr.Latitude, &pr.Longitude, &pr.DistanceToSea, &pr.PropertyType,
		&pr.MonthlyPrice, &pr.DailyPrice, &pr.BookingDeposit, &pr.SecurityDeposit,
		&pr.Bedrooms, &pr.Bathrooms, &pr.Pool, &pr.Kitchen, &pr.Cleaning, &pr.Description, &pr.UtilityBill,
		&pr.CreatedAt, &pr.Notified, &pr.AvgRating,
	)
	if err := row.Scan(dest...); err != nil {
		return domain.Property{}, err
	}

	p := domain.Property{
		ID:              pr.ID,
		Name:            text(pr.Name),
		Location:        text(pr.Location),
		Latitude:        pr.Latitude,
		Longitude:       pr.Longitude,
		DistanceToSea:   text(pr.DistanceToSea),
		PropertyType:    text(pr.PropertyType),
		MonthlyPrice:    text(pr.MonthlyPrice),
		DailyPrice:      text(pr.DailyPrice),
		BookingDeposit:  text(pr.BookingDeposit),
		SecurityDeposit: text(pr.SecurityDeposit),
		Bedrooms:        intPtr(pr.Bedrooms),
		Bathrooms:       intPtr(pr.Bathrooms),
		Pool:            text(pr.Pool),
		Kitchen:         text(pr.Kitchen),
		Cleaning:        text(pr.Cleaning),
		Description:     text(pr.Description),
		UtilityBill:     text(pr.UtilityBill),
		CreatedAt:       pr.CreatedAt,
		Notified:        pr.Notified,
		AvgRating:       pr.AvgRating,
	}
	for i, ph := range pr.Photos {
		p.Photos[i] = domain.PhotoRef(text(ph))
	}
	return p, nil
}

func collectProperties(rows pgx.Rows) ([]domain.Property, error) {
	props, err := pgx.CollectRows(rows, scanProperty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to scan properties: %w", err)
	}
	return props, nil
}

func nullText(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intPtr(v *int64) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

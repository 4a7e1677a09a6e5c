package catalog

import (
	"context"
	"errors"

	"trattoria-order-service/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const dishColumns = `d.id, d.name, d.description, d.price, d.discount, d.image_url, d.image_thumb_url`

func scanDish(row pgx.Row) (Dish, error) {
	var (
		d           Dish
		description pgtype.Text
		price       pgtype.Numeric
		discount    pgtype.Numeric
		imageURL    pgtype.Text
		thumbURL    pgtype.Text
	)
	if err := row.Scan(&d.ID, &d.Name, &description, &price, &discount, &imageURL, &thumbURL); err != nil {
		return Dish{}, err
	}
	d.Price = utils.NumericToFloat64(price)
	if description.Valid {
		d.Description = &description.String
	}
	if discount.Valid {
		v := utils.NumericToFloat64(discount)
		d.Discount = &v
	}
	if imageURL.Valid {
		d.ImageURL = &imageURL.String
	}
	if thumbURL.Valid {
		d.ImageThumbURL = &thumbURL.String
	}
	d.Ingredients = []Ingredient{}
	return d, nil
}

func (s *PGStore) ListDishes(ctx context.Context) ([]Dish, error) {
	rows, err := s.db.Query(ctx, `select `+dishColumns+` from dish d order by d.id asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dishes := make([]Dish, 0)
	index := make(map[int64]int)
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		index[d.ID] = len(dishes)
		dishes = append(dishes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(dishes) == 0 {
		return dishes, nil
	}

	ingRows, err := s.db.Query(ctx, `
		select di.dish_id, i.id, i.name, i.amount, i.metric
		from dish_ingredient di
		join ingredient i on i.id = di.ingredient_id
		order by di.dish_id asc, di.position asc
	`)
	if err != nil {
		return nil, err
	}
	defer ingRows.Close()

	for ingRows.Next() {
		var (
			dishID int64
			ing    Ingredient
			metric string
		)
		if err := ingRows.Scan(&dishID, &ing.ID, &ing.Name, &ing.Amount, &metric); err != nil {
			return nil, err
		}
		ing.Metric = Metric(metric)
		if i, ok := index[dishID]; ok {
			dishes[i].Ingredients = append(dishes[i].Ingredients, ing)
		}
	}
	return dishes, ingRows.Err()
}

func (s *PGStore) GetDish(ctx context.Context, id int64) (Dish, error) {
	d, err := scanDish(s.db.QueryRow(ctx, `select `+dishColumns+` from dish d where d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Dish{}, notFound(ErrDishNotFound, "Dish not found")
		}
		return Dish{}, err
	}
	ings, err := s.dishIngredients(ctx, s.db, id)
	if err != nil {
		return Dish{}, err
	}
	d.Ingredients = ings
	return d, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *PGStore) dishIngredients(ctx context.Context, q querier, dishID int64) ([]Ingredient, error) {
	rows, err := q.Query(ctx, `
		select i.id, i.name, i.amount, i.metric
		from dish_ingredient di
		join ingredient i on i.id = di.ingredient_id
		where di.dish_id = $1
		order by di.position asc
	`, dishID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Ingredient, 0)
	for rows.Next() {
		var (
			ing    Ingredient
			metric string
		)
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Amount, &metric); err != nil {
			return nil, err
		}
		ing.Metric = Metric(metric)
		out = append(out, ing)
	}
	return out, rows.Err()
}

func (s *PGStore) CreateDish(ctx context.Context, dish Dish) (Dish, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Dish{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, `
		insert into dish (name, description, price, discount)
		values ($1, $2, $3, $4)
		returning id
	`, dish.Name, dish.Description, dish.Price, dish.Discount).Scan(&dish.ID); err != nil {
		return Dish{}, err
	}
	if err := replaceDishIngredients(ctx, tx, dish.ID, dish.Ingredients); err != nil {
		return Dish{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Dish{}, err
	}
	return s.GetDish(ctx, dish.ID)
}

func (s *PGStore) UpdateDish(ctx context.Context, dish Dish) (Dish, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Dish{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		update dish
		set name = $2, description = $3, price = $4, discount = $5, updated_at = now()
		where id = $1
	`, dish.ID, dish.Name, dish.Description, dish.Price, dish.Discount)
	if err != nil {
		return Dish{}, err
	}
	if tag.RowsAffected() == 0 {
		return Dish{}, notFound(ErrDishNotFound, "Dish not found")
	}
	if err := replaceDishIngredients(ctx, tx, dish.ID, dish.Ingredients); err != nil {
		return Dish{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Dish{}, err
	}
	return s.GetDish(ctx, dish.ID)
}

func replaceDishIngredients(ctx context.Context, tx pgx.Tx, dishID int64, ings []Ingredient) error {
	if _, err := tx.Exec(ctx, `delete from dish_ingredient where dish_id = $1`, dishID); err != nil {
		return err
	}
	batch := &pgx.Batch{}
	for i, ing := range ings {
		batch.Queue(`insert into dish_ingredient (dish_id, ingredient_id, position) values ($1, $2, $3)`, dishID, ing.ID, i)
	}
	if batch.Len() == 0 {
		return nil
	}
	return tx.SendBatch(ctx, batch).Close()
}

func (s *PGStore) DeleteDish(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `delete from dish where id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound(ErrDishNotFound, "Dish not found")
	}
	return nil
}

func (s *PGStore) SetDishImage(ctx context.Context, id int64, imageURL, thumbURL string) (Dish, error) {
	tag, err := s.db.Exec(ctx, `
		update dish set image_url = $2, image_thumb_url = $3, updated_at = now()
		where id = $1
	`, id, imageURL, thumbURL)
	if err != nil {
		return Dish{}, err
	}
	if tag.RowsAffected() == 0 {
		return Dish{}, notFound(ErrDishNotFound, "Dish not found")
	}
	return s.GetDish(ctx, id)
}

func (s *PGStore) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := s.db.Query(ctx, `select id, name, amount, metric from ingredient order by id asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Ingredient, 0)
	for rows.Next() {
		var (
			ing    Ingredient
			metric string
		)
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Amount, &metric); err != nil {
			return nil, err
		}
		ing.Metric = Metric(metric)
		out = append(out, ing)
	}
	return out, rows.Err()
}

func (s *PGStore) GetIngredient(ctx context.Context, id int64) (Ingredient, error) {
	var (
		ing    Ingredient
		metric string
	)
	err := s.db.QueryRow(ctx, `select id, name, amount, metric from ingredient where id = $1`, id).
		Scan(&ing.ID, &ing.Name, &ing.Amount, &metric)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ingredient{}, notFound(ErrIngredientNotFound, "Ingredient not found")
		}
		return Ingredient{}, err
	}
	ing.Metric = Metric(metric)
	return ing, nil
}

func (s *PGStore) CreateIngredient(ctx context.Context, ing Ingredient) (Ingredient, error) {
	err := s.db.QueryRow(ctx, `
		insert into ingredient (name, amount, metric) values ($1, $2, $3) returning id
	`, ing.Name, ing.Amount, string(ing.Metric)).Scan(&ing.ID)
	return ing, err
}

func (s *PGStore) UpdateIngredient(ctx context.Context, ing Ingredient) (Ingredient, error) {
	tag, err := s.db.Exec(ctx, `
		update ingredient set name = $2, amount = $3, metric = $4 where id = $1
	`, ing.ID, ing.Name, ing.Amount, string(ing.Metric))
	if err != nil {
		return Ingredient{}, err
	}
	if tag.RowsAffected() == 0 {
		return Ingredient{}, notFound(ErrIngredientNotFound, "Ingredient not found")
	}
	return ing, nil
}

func (s *PGStore) DeleteIngredient(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `delete from ingredient where id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound(ErrIngredientNotFound, "Ingredient not found")
	}
	return nil
}

func (s *PGStore) IngredientInUse(ctx context.Context, id int64) (bool, error) {
	var used bool
	err := s.db.QueryRow(ctx, `select exists(select 1 from dish_ingredient where ingredient_id = $1)`, id).Scan(&used)
	return used, err
}

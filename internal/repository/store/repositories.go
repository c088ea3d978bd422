package store

import (
	"fmt"
	"strings"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
)

// Repositories bundles one gateway per entity
type Repositories struct {
	Products       domain.ProductRepository
	Users          domain.UserRepository
	Carts          domain.CartRepository
	Questionnaires domain.QuestionnaireRepository
}

// Backends are the four collections a file or memory store is made of
type Backends struct {
	Products       Backend[domain.Product]
	Users          Backend[domain.User]
	Carts          Backend[domain.Cart]
	CartSequence   Sequence
	Questionnaires Backend[domain.Questionnaire]
}

// New wires a Repositories set on top of the given backends
func New(b Backends) *Repositories {
	return &Repositories{
		Products:       NewProductRepository(b.Products),
		Users:          NewUserRepository(b.Users),
		Carts:          NewCartRepository(b.Carts, b.CartSequence),
		Questionnaires: NewQuestionnaireRepository(b.Questionnaires),
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ProductRepository implements domain.ProductRepository on a Table
type ProductRepository struct {
	table *Table[int, domain.Product]
}

// NewProductRepository creates a product repository
func NewProductRepository(backend Backend[domain.Product]) *ProductRepository {
	return &ProductRepository{
		table: NewTable(backend, func(p domain.Product) int { return p.Code }, domain.Product.Clone),
	}
}

// Create inserts a new product
func (r *ProductRepository) Create(product *domain.Product) error {
	if err := r.table.Insert(*product); err != nil {
		return fmt.Errorf("failed to create product %d: %w", product.Code, err)
	}
	return nil
}

// GetByCode retrieves a product by its code
func (r *ProductRepository) GetByCode(code int) (*domain.Product, error) {
	p, err := r.table.Get(code)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", code, err)
	}
	return &p, nil
}

// Update replaces an existing product
func (r *ProductRepository) Update(product *domain.Product) error {
	if err := r.table.Replace(*product); err != nil {
		return fmt.Errorf("failed to update product %d: %w", product.Code, err)
	}
	return nil
}

// Delete removes a product by code
func (r *ProductRepository) Delete(code int) error {
	if err := r.table.Remove(code); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", code, err)
	}
	return nil
}

// List returns every product in insertion order
func (r *ProductRepository) List() ([]*domain.Product, error) {
	return r.find(nil)
}

// FindByName returns products whose name contains name, ignoring case
func (r *ProductRepository) FindByName(name string) ([]*domain.Product, error) {
	return r.find(func(p domain.Product) bool { return containsFold(p.Name, name) })
}

func (r *ProductRepository) find(match func(domain.Product) bool) ([]*domain.Product, error) {
	rows, err := r.table.Select(match)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return pointers(rows), nil
}

// UserRepository implements domain.UserRepository on a Table
type UserRepository struct {
	table *Table[string, domain.User]
}

// NewUserRepository creates a user repository
func NewUserRepository(backend Backend[domain.User]) *UserRepository {
	return &UserRepository{
		table: NewTable(backend, func(u domain.User) string { return u.ID }, func(u domain.User) domain.User { return u }),
	}
}

// Create inserts a new user
func (r *UserRepository) Create(user *domain.User) error {
	if err := r.table.Insert(*user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.ID, err)
	}
	return nil
}

// GetByID retrieves a user by national id
func (r *UserRepository) GetByID(id string) (*domain.User, error) {
	u, err := r.table.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &u, nil
}

// Update replaces an existing user
func (r *UserRepository) Update(user *domain.User) error {
	if err := r.table.Replace(*user); err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return nil
}

// Delete removes a user by id
func (r *UserRepository) Delete(id string) error {
	if err := r.table.Remove(id); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

// List returns every user
func (r *UserRepository) List() ([]*domain.User, error) {
	return r.find(nil)
}

// ListByRole returns the users holding role
func (r *UserRepository) ListByRole(role domain.Role) ([]*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Role == role })
}

// FindByName returns users whose name contains name, ignoring case
func (r *UserRepository) FindByName(name string) ([]*domain.User, error) {
	return r.find(func(u domain.User) bool { return containsFold(u.Name, name) })
}

func (r *UserRepository) find(match func(domain.User) bool) ([]*domain.User, error) {
	rows, err := r.table.Select(match)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return pointers(rows), nil
}

// CartRepository implements domain.CartRepository on a Table.
// Codes come from the sequence and never go below the highest stored code.
type CartRepository struct {
	table *Table[int, domain.Cart]
	seq   Sequence
}

// NewCartRepository creates a cart repository; a nil sequence uses a MemorySequence
func NewCartRepository(backend Backend[domain.Cart], seq Sequence) *CartRepository {
	if seq == nil {
		seq = &MemorySequence{}
	}
	return &CartRepository{
		table: NewTable(backend, func(c domain.Cart) int { return c.Code }, domain.Cart.Clone),
		seq:   seq,
	}
}

// Create stores a new cart under the next sequence code
func (r *CartRepository) Create(cart *domain.Cart) error {
	err := r.table.InsertWith(func(rows []domain.Cart) (domain.Cart, error) {
		highest := 0
		for _, c := range rows {
			highest = max(highest, c.Code)
		}
		code, err := r.seq.Next(highest)
		if err != nil {
			return domain.Cart{}, err
		}
		cart.Code = code
		return *cart, nil
	})
	if err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// GetByCode retrieves a cart by code
func (r *CartRepository) GetByCode(code int) (*domain.Cart, error) {
	c, err := r.table.Get(code)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart %d: %w", code, err)
	}
	return &c, nil
}

// Update replaces an existing cart
func (r *CartRepository) Update(cart *domain.Cart) error {
	if err := r.table.Replace(*cart); err != nil {
		return fmt.Errorf("failed to update cart %d: %w", cart.Code, err)
	}
	return nil
}

// Delete removes a cart by code
func (r *CartRepository) Delete(code int) error {
	if err := r.table.Remove(code); err != nil {
		return fmt.Errorf("failed to delete cart %d: %w", code, err)
	}
	return nil
}

// List returns every cart
func (r *CartRepository) List() ([]*domain.Cart, error) {
	return r.find(nil)
}

// ListByOwner returns the carts opened by ownerID
func (r *CartRepository) ListByOwner(ownerID string) ([]*domain.Cart, error) {
	return r.find(func(c domain.Cart) bool { return c.OwnerID == ownerID })
}

func (r *CartRepository) find(match func(domain.Cart) bool) ([]*domain.Cart, error) {
	rows, err := r.table.Select(match)
	if err != nil {
		return nil, fmt.Errorf("failed to list carts: %w", err)
	}
	return pointers(rows), nil
}

// QuestionnaireRepository implements domain.QuestionnaireRepository on a Table
type QuestionnaireRepository struct {
	table *Table[string, domain.Questionnaire]
}

// NewQuestionnaireRepository creates a questionnaire repository
func NewQuestionnaireRepository(backend Backend[domain.Questionnaire]) *QuestionnaireRepository {
	return &QuestionnaireRepository{
		table: NewTable(backend, func(q domain.Questionnaire) string { return q.OwnerID }, domain.Questionnaire.Clone),
	}
}

// Create stores a questionnaire for a user without one
func (r *QuestionnaireRepository) Create(q *domain.Questionnaire) error {
	if err := r.table.Insert(*q); err != nil {
		return fmt.Errorf("failed to create questionnaire for %s: %w", q.OwnerID, err)
	}
	return nil
}

// GetByOwner retrieves the questionnaire of ownerID
func (r *QuestionnaireRepository) GetByOwner(ownerID string) (*domain.Questionnaire, error) {
	q, err := r.table.Get(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questionnaire for %s: %w", ownerID, err)
	}
	return &q, nil
}

// Update replaces an existing questionnaire
func (r *QuestionnaireRepository) Update(q *domain.Questionnaire) error {
	if err := r.table.Replace(*q); err != nil {
		return fmt.Errorf("failed to update questionnaire for %s: %w", q.OwnerID, err)
	}
	return nil
}

// Delete removes the questionnaire of ownerID
func (r *QuestionnaireRepository) Delete(ownerID string) error {
	if err := r.table.Remove(ownerID); err != nil {
		return fmt.Errorf("failed to delete questionnaire for %s: %w", ownerID, err)
	}
	return nil
}

// List returns every questionnaire
func (r *QuestionnaireRepository) List() ([]*domain.Questionnaire, error) {
	rows, err := r.table.Select(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list questionnaires: %w", err)
	}
	return pointers(rows), nil
}

func pointers[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

package domain

// ProductRepository defines data access for products
type ProductRepository interface {
	Create(product *Product) error
	GetByCode(code int) (*Product, error)
	Update(product *Product) error
	Delete(code int) error
	List() ([]*Product, error)
	FindByName(name string) ([]*Product, error) // case-insensitive substring
}

// UserRepository defines data access for users
type UserRepository interface {
	Create(user *User) error
	GetByID(id string) (*User, error)
	Update(user *User) error
	Delete(id string) error
	List() ([]*User, error)
	ListByRole(role Role) ([]*User, error)
	FindByName(name string) ([]*User, error)
}

// CartRepository defines data access for carts.
// Create assigns cart.Code from a counter owned by the store.
type CartRepository interface {
	Create(cart *Cart) error
	GetByCode(code int) (*Cart, error)
	Update(cart *Cart) error
	Delete(code int) error
	List() ([]*Cart, error)
	ListByOwner(ownerID string) ([]*Cart, error)
}

// QuestionnaireRepository defines data access for security questionnaires
type QuestionnaireRepository interface {
	Create(q *Questionnaire) error
	GetByOwner(ownerID string) (*Questionnaire, error)
	Update(q *Questionnaire) error
	Delete(ownerID string) error
	List() ([]*Questionnaire, error)
}

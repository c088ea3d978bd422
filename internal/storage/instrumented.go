package storage

import (
	"time"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/observability/metrics"
	"github.com/aryan0dhankhar/shopcart/internal/repository/store"
)

// Instrument wraps every gateway so each call is counted and timed
func Instrument(r *store.Repositories) *store.Repositories {
	return &store.Repositories{
		Products:       instrumentedProducts{r.Products},
		Users:          instrumentedUsers{r.Users},
		Carts:          instrumentedCarts{r.Carts},
		Questionnaires: instrumentedQuestionnaires{r.Questionnaires},
	}
}

func observe(entity, op string, start time.Time, err error) {
	metrics.ObserveStoreOp(entity, op, err, time.Since(start))
}

type instrumentedProducts struct{ next domain.ProductRepository }

func (r instrumentedProducts) Create(p *domain.Product) (err error) {
	defer func(start time.Time) { observe("product", "create", start, err) }(time.Now())
	return r.next.Create(p)
}

func (r instrumentedProducts) GetByCode(code int) (p *domain.Product, err error) {
	defer func(start time.Time) { observe("product", "get", start, err) }(time.Now())
	return r.next.GetByCode(code)
}

func (r instrumentedProducts) Update(p *domain.Product) (err error) {
	defer func(start time.Time) { observe("product", "update", start, err) }(time.Now())
	return r.next.Update(p)
}

func (r instrumentedProducts) Delete(code int) (err error) {
	defer func(start time.Time) { observe("product", "delete", start, err) }(time.Now())
	return r.next.Delete(code)
}

func (r instrumentedProducts) List() (ps []*domain.Product, err error) {
	defer func(start time.Time) { observe("product", "list", start, err) }(time.Now())
	return r.next.List()
}

func (r instrumentedProducts) FindByName(name string) (ps []*domain.Product, err error) {
	defer func(start time.Time) { observe("product", "find_by_name", start, err) }(time.Now())
	return r.next.FindByName(name)
}

type instrumentedUsers struct{ next domain.UserRepository }

func (r instrumentedUsers) Create(u *domain.User) (err error) {
	defer func(start time.Time) { observe("user", "create", start, err) }(time.Now())
	return r.next.Create(u)
}

func (r instrumentedUsers) GetByID(id string) (u *domain.User, err error) {
	defer func(start time.Time) { observe("user", "get", start, err) }(time.Now())
	return r.next.GetByID(id)
}

func (r instrumentedUsers) Update(u *domain.User) (err error) {
	defer func(start time.Time) { observe("user", "update", start, err) }(time.Now())
	return r.next.Update(u)
}

func (r instrumentedUsers) Delete(id string) (err error) {
	defer func(start time.Time) { observe("user", "delete", start, err) }(time.Now())
	return r.next.Delete(id)
}

func (r instrumentedUsers) List() (us []*domain.User, err error) {
	defer func(start time.Time) { observe("user", "list", start, err) }(time.Now())
	return r.next.List()
}

func (r instrumentedUsers) ListByRole(role domain.Role) (us []*domain.User, err error) {
	defer func(start time.Time) { observe("user", "list_by_role", start, err) }(time.Now())
	return r.next.ListByRole(role)
}

func (r instrumentedUsers) FindByName(name string) (us []*domain.User, err error) {
	defer func(start time.Time) { observe("user", "find_by_name", start, err) }(time.Now())
	return r.next.FindByName(name)
}

type instrumentedCarts struct{ next domain.CartRepository }

func (r instrumentedCarts) Create(c *domain.Cart) (err error) {
	defer func(start time.Time) { observe("cart", "create", start, err) }(time.Now())
	return r.next.Create(c)
}

func (r instrumentedCarts) GetByCode(code int) (c *domain.Cart, err error) {
	defer func(start time.Time) { observe("cart", "get", start, err) }(time.Now())
	return r.next.GetByCode(code)
}

func (r instrumentedCarts) Update(c *domain.Cart) (err error) {
	defer func(start time.Time) { observe("cart", "update", start, err) }(time.Now())
	return r.next.Update(c)
}

func (r instrumentedCarts) Delete(code int) (err error) {
	defer func(start time.Time) { observe("cart", "delete", start, err) }(time.Now())
	return r.next.Delete(code)
}

func (r instrumentedCarts) List() (cs []*domain.Cart, err error) {
	defer func(start time.Time) { observe("cart", "list", start, err) }(time.Now())
	return r.next.List()
}

func (r instrumentedCarts) ListByOwner(owner string) (cs []*domain.Cart, err error) {
	defer func(start time.Time) { observe("cart", "list_by_owner", start, err) }(time.Now())
	return r.next.ListByOwner(owner)
}

type instrumentedQuestionnaires struct{ next domain.QuestionnaireRepository }

func (r instrumentedQuestionnaires) Create(q *domain.Questionnaire) (err error) {
	defer func(start time.Time) { observe("questionnaire", "create", start, err) }(time.Now())
	return r.next.Create(q)
}

func (r instrumentedQuestionnaires) GetByOwner(owner string) (q *domain.Questionnaire, err error) {
	defer func(start time.Time) { observe("questionnaire", "get", start, err) }(time.Now())
	return r.next.GetByOwner(owner)
}

func (r instrumentedQuestionnaires) Update(q *domain.Questionnaire) (err error) {
	defer func(start time.Time) { observe("questionnaire", "update", start, err) }(time.Now())
	return r.next.Update(q)
}

func (r instrumentedQuestionnaires) Delete(owner string) (err error) {
	defer func(start time.Time) { observe("questionnaire", "delete", start, err) }(time.Now())
	return r.next.Delete(owner)
}

func (r instrumentedQuestionnaires) List() (qs []*domain.Questionnaire, err error) {
	defer func(start time.Time) { observe("questionnaire", "list", start, err) }(time.Now())
	return r.next.List()
}

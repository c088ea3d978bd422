package binfile

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
)

type productRecord struct {
	Code     int
	Name     string
	Price    string
	HasStock bool
	Stock    int
}

type userRecord struct {
	ID           string
	PasswordHash string
	Role         string
	Name         string
	Phone        string
	Email        string
	BirthDate    time.Time
}

type cartItemRecord struct {
	Product  productRecord
	Quantity int
}

type cartRecord struct {
	Code      int
	OwnerID   string
	CreatedAt time.Time
	Items     []cartItemRecord
}

type answerRecord struct {
	QuestionID int
	Question   string
	AnswerHash string
}

type questionnaireRecord struct {
	OwnerID string
	Answers []answerRecord
}

func toProductRecord(p domain.Product) productRecord {
	r := productRecord{Code: p.Code, Name: p.Name, Price: p.Price.String()}
	if p.Stock != nil {
		r.HasStock = true
		r.Stock = *p.Stock
	}
	return r
}

func fromProductRecord(r productRecord) (domain.Product, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d has price %q: %w", r.Code, r.Price, domain.ErrCorrupt)
	}
	p := domain.Product{Code: r.Code, Name: r.Name, Price: price}
	if r.HasStock {
		p.Stock = domain.IntPtr(r.Stock)
	}
	return p, nil
}

func toUserRecord(u domain.User) userRecord {
	return userRecord{
		ID:           u.ID,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Name:         u.Name,
		Phone:        u.Phone,
		Email:        u.Email,
		BirthDate:    u.BirthDate,
	}
}

func fromUserRecord(r userRecord) (domain.User, error) {
	role, err := domain.ParseRole(r.Role)
	if err != nil {
		return domain.User{}, fmt.Errorf("user %s: %w: %v", r.ID, domain.ErrCorrupt, err)
	}
	return domain.User{
		ID:           r.ID,
		PasswordHash: r.PasswordHash,
		Role:         role,
		Name:         r.Name,
		Phone:        r.Phone,
		Email:        r.Email,
		BirthDate:    r.BirthDate,
	}, nil
}

func toCartRecord(c domain.Cart) cartRecord {
	r := cartRecord{Code: c.Code, OwnerID: c.OwnerID, CreatedAt: c.CreatedAt}
	for _, it := range c.Items {
		r.Items = append(r.Items, cartItemRecord{Product: toProductRecord(it.Product), Quantity: it.Quantity})
	}
	return r
}

func fromCartRecord(r cartRecord) (domain.Cart, error) {
	c := domain.Cart{Code: r.Code, OwnerID: r.OwnerID, CreatedAt: r.CreatedAt}
	for _, it := range r.Items {
		p, err := fromProductRecord(it.Product)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("cart %d: %w", r.Code, err)
		}
		if it.Quantity <= 0 {
			return domain.Cart{}, fmt.Errorf("cart %d has quantity %d for product %d: %w", r.Code, it.Quantity, p.Code, domain.ErrCorrupt)
		}
		c.Items = append(c.Items, domain.CartItem{Product: p, Quantity: it.Quantity})
	}
	return c, nil
}

func toQuestionnaireRecord(q domain.Questionnaire) questionnaireRecord {
	r := questionnaireRecord{OwnerID: q.OwnerID}
	for _, a := range q.Answers {
		r.Answers = append(r.Answers, answerRecord(a))
	}
	return r
}

func fromQuestionnaireRecord(r questionnaireRecord) (domain.Questionnaire, error) {
	q := domain.Questionnaire{OwnerID: r.OwnerID}
	for _, a := range r.Answers {
		q.Answers = append(q.Answers, domain.Answer(a))
	}
	return q, nil
}

package textfile

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
)

// Product line: code|name|price|stock (stock empty when unset)
var productCodec = Codec[domain.Product]{
	Comma: '|',
	Encode: func(p domain.Product) []string {
		return encodeProduct(p)
	},
	Decode: func(f []string) (domain.Product, error) {
		if len(f) != 4 {
			return domain.Product{}, fmt.Errorf("expected 4 fields, got %d", len(f))
		}
		return decodeProduct(f)
	},
}

// User line: id,password_hash,role,name,phone,email,birth_date(YYYY-MM-DD)
var userCodec = Codec[domain.User]{
	Comma: ',',
	Encode: func(u domain.User) []string {
		birth := ""
		if !u.BirthDate.IsZero() {
			birth = u.BirthDate.Format(domain.DateLayout)
		}
		return []string{u.ID, u.PasswordHash, string(u.Role), u.Name, u.Phone, u.Email, birth}
	},
	Decode: func(f []string) (domain.User, error) {
		if len(f) != 7 {
			return domain.User{}, fmt.Errorf("expected 7 fields, got %d", len(f))
		}
		role, err := domain.ParseRole(f[2])
		if err != nil {
			return domain.User{}, err
		}
		u := domain.User{ID: f[0], PasswordHash: f[1], Role: role, Name: f[3], Phone: f[4], Email: f[5]}
		if f[6] != "" {
			u.BirthDate, err = time.Parse(domain.DateLayout, f[6])
			if err != nil {
				return domain.User{}, fmt.Errorf("bad birth date: %w", err)
			}
		}
		return u, nil
	},
}

// Cart line: code|owner|created_ms followed by code|name|price|stock|qty per item
var cartCodec = Codec[domain.Cart]{
	Comma: '|',
	Encode: func(c domain.Cart) []string {
		out := []string{strconv.Itoa(c.Code), c.OwnerID, strconv.FormatInt(c.CreatedAt.UnixMilli(), 10)}
		for _, it := range c.Items {
			out = append(out, encodeProduct(it.Product)...)
			out = append(out, strconv.Itoa(it.Quantity))
		}
		return out
	},
	Decode: func(f []string) (domain.Cart, error) {
		if len(f) < 3 || (len(f)-3)%5 != 0 {
			return domain.Cart{}, fmt.Errorf("unexpected field count %d", len(f))
		}
		code, err := strconv.Atoi(f[0])
		if err != nil {
			return domain.Cart{}, fmt.Errorf("bad cart code: %w", err)
		}
		ms, err := strconv.ParseInt(f[2], 10, 64)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("bad timestamp: %w", err)
		}
		c := domain.Cart{Code: code, OwnerID: f[1], CreatedAt: time.UnixMilli(ms)}
		for i := 3; i < len(f); i += 5 {
			p, err := decodeProduct(f[i : i+4])
			if err != nil {
				return domain.Cart{}, err
			}
			qty, err := strconv.Atoi(f[i+4])
			if err != nil || qty <= 0 {
				return domain.Cart{}, fmt.Errorf("bad quantity %q", f[i+4])
			}
			c.Items = append(c.Items, domain.CartItem{Product: p, Quantity: qty})
		}
		return c, nil
	},
}

// Questionnaire line: owner followed by question_id|question|answer_hash per answer
var questionnaireCodec = Codec[domain.Questionnaire]{
	Comma: '|',
	Encode: func(q domain.Questionnaire) []string {
		out := []string{q.OwnerID}
		for _, a := range q.Answers {
			out = append(out, strconv.Itoa(a.QuestionID), a.Question, a.AnswerHash)
		}
		return out
	},
	Decode: func(f []string) (domain.Questionnaire, error) {
		if len(f) < 1 || (len(f)-1)%3 != 0 {
			return domain.Questionnaire{}, fmt.Errorf("unexpected field count %d", len(f))
		}
		q := domain.Questionnaire{OwnerID: f[0]}
		for i := 1; i < len(f); i += 3 {
			id, err := strconv.Atoi(f[i])
			if err != nil {
				return domain.Questionnaire{}, fmt.Errorf("bad question id: %w", err)
			}
			q.Answers = append(q.Answers, domain.Answer{QuestionID: id, Question: f[i+1], AnswerHash: f[i+2]})
		}
		return q, nil
	},
}

func encodeProduct(p domain.Product) []string {
	stock := ""
	if p.Stock != nil {
		stock = strconv.Itoa(*p.Stock)
	}
	return []string{strconv.Itoa(p.Code), p.Name, p.Price.String(), stock}
}

func decodeProduct(f []string) (domain.Product, error) {
	code, err := strconv.Atoi(f[0])
	if err != nil {
		return domain.Product{}, fmt.Errorf("bad product code: %w", err)
	}
	price, err := decimal.NewFromString(f[2])
	if err != nil {
		return domain.Product{}, fmt.Errorf("bad price: %w", err)
	}
	p := domain.Product{Code: code, Name: f[1], Price: price}
	if f[3] != "" {
		stock, err := strconv.Atoi(f[3])
		if err != nil {
			return domain.Product{}, fmt.Errorf("bad stock: %w", err)
		}
		p.Stock = &stock
	}
	return p, nil
}

package repo

import (
	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
)

func toUser(m models.User) domain.User {
	return domain.User{
		ID:           m.ID.String(),
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
	}
}

func toCategory(m models.Category) domain.Category {
	return domain.Category{ID: m.ID.String(), Name: m.Name, Description: m.Description}
}

func toProduct(m models.Product) domain.Product {
	return domain.Product{
		ID:          m.ID.String(),
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Image:       m.Image,
		Category:    m.CategoryID.String(),
	}
}

func toCartItem(m models.CartItem) domain.CartItem {
	return domain.CartItem{
		ID:        m.ID.String(),
		UserID:    m.UserID.String(),
		ProductID: m.ProductID.String(),
		Quantity:  m.Quantity,
	}
}

func mapAll[M any, D any](in []M, f func(M) D) []D {
	out := make([]D, 0, len(in))
	for _, m := range in {
		out = append(out, f(m))
	}
	return out
}

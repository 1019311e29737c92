package domain

// Patches carry only the fields a caller supplied; nil means "leave as is".

type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Role         *Role
}

func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.PasswordHash == nil && p.Role == nil
}

type CategoryPatch struct {
	Name        *string
	Description *string
}

func (p CategoryPatch) Empty() bool { return p.Name == nil && p.Description == nil }

type ProductPatch struct {
	Name        *string
	Description *string
	Price       *int64
	Image       *string
	Category    *string
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Image == nil && p.Category == nil
}

type CartItemPatch struct {
	Quantity *int
}

func (p CartItemPatch) Empty() bool { return p.Quantity == nil }

package model

// Account is the stored credential record, keyed by Email.
// Email is compared byte for byte; no case folding is applied.
type Account struct {
	Email          string `dynamodbav:"email"`
	HashedPassword string `dynamodbav:"hashedPassword"`
}

// Attribute names of the stored item.
const (
	AttrEmail          = "email"
	AttrHashedPassword = "hashedPassword"
)

// Valid reports whether the record can be persisted.
func (a *Account) Valid() bool {
	return a != nil && a.Email != "" && a.HashedPassword != ""
}

package services

// Identity is the acting user of one request. The zero value is anonymous.
type Identity struct {
	UserID uint
}

func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

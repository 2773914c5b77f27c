package constants

const (
	// UsersCollection is the table/collection holding user credentials.
	UsersCollection = "users"
)

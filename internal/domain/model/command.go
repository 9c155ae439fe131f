package model

// Command is a parsed chat instruction of the form "<name> <type> <token>".
type Command struct {
	Name  string
	Type  string
	Token string
}

// CreditCard holds the fields sent when tokenizing a card.
type CreditCard struct {
	FirstName         string
	LastName          string
	Number            string
	Month             int
	Year              int
	VerificationValue string
}

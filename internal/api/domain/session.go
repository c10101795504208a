package domain

// TokenPair carries freshly minted session tokens from the service layer to
// the transport layer. The transport decides how they reach the client; they
// never appear in a response body.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session is the outcome of a successful issuance operation.
type Session struct {
	User   User
	Tokens TokenPair
}

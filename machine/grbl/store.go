package grbl

// TokenStore is an append-only list of tokens.
type TokenStore struct {
	tokens []Token
}

func (s *TokenStore) append(t Token) { s.tokens = append(s.tokens, t) }

func (s *TokenStore) Len() int { return len(s.tokens) }

// Token returns the i'th token. It panics if i is out of range.
func (s *TokenStore) Token(i int) Token { return s.tokens[i] }

// Tokens returns a copy of the stored tokens.
func (s *TokenStore) Tokens() []Token {
	res := make([]Token, len(s.tokens))
	copy(res, s.tokens)
	return res
}

// Since returns a copy of the tokens from index i on.
func (s *TokenStore) Since(i int) []Token {
	if i >= len(s.tokens) {
		return nil
	}
	res := make([]Token, len(s.tokens)-i)
	copy(res, s.tokens[i:])
	return res
}

func (s *TokenStore) Reset() { s.tokens = nil }

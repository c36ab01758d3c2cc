package model

// CreditCard mirrors a row of the `credit_cards` table. Every payment
// field is stored as an independent ciphertext produced by the field
// cipher, so updating a single field never forces re-encryption of the
// whole row. The struct never carries plaintext beyond the handler
// that encrypts or decrypts it.
type CreditCard struct {
	ID             uint64 // credit_cards.id
	Number         string // credit_cards.number (ciphertext)
	ExpirationDate string // credit_cards.expiration_date (ciphertext)
	CVV            string // credit_cards.cvv (ciphertext)
	CardHolderName string // credit_cards.card_holder_name (ciphertext)
}

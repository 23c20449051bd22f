package badger

const (
	ledgerPrefix = "ledger:"
)

func makeLedgerKey(documentID string) []byte {
	buf := make([]byte, len(ledgerPrefix)+len(documentID))
	offset := copy(buf, ledgerPrefix)
	copy(buf[offset:], documentID)
	return buf
}

func documentIDFromKey(key []byte) string {
	return string(key[len(ledgerPrefix):])
}

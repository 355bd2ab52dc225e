package holder

import (
	"fmt"
	"strconv"
	"strings"
)

// Scannable code format: FS-<kind letter><id>-<check letter>, e.g. the code
// printed on a member tag for customer 482 is "FS-C482-X". The trailing
// letter is a checksum so a misread digit fails decoding instead of
// resolving to the wrong person.

const codePrefix = "FS"

var checkAlphabet = []byte("ABCDEFGHJKLMNPQRSTUVWXYZ") // no I/O, they misread as 1/0

func kindLetter(k Kind) (byte, bool) {
	switch k {
	case KindCustomer:
		return 'C', true
	case KindDependent:
		return 'D', true
	}
	return 0, false
}

func checkChar(letter byte, id int64) byte {
	sum := int64(letter)
	for n := id; n > 0; n /= 10 {
		sum += n % 10 * 7
	}
	return checkAlphabet[sum%int64(len(checkAlphabet))]
}

// EncodeCode renders a holder ref as its scannable code.
func EncodeCode(r Ref) (string, error) {
	letter, ok := kindLetter(r.Kind)
	if !ok || r.ID <= 0 {
		return "", fmt.Errorf("cannot encode holder %s", r)
	}
	return fmt.Sprintf("%s-%c%d-%c", codePrefix, letter, r.ID, checkChar(letter, r.ID)), nil
}

// DecodeCode parses a scanned code back into a holder ref. Malformed input
// of any shape yields ErrInvalidCode, never a panic or a partial result.
func DecodeCode(code string) (Ref, error) {
	parts := strings.Split(strings.TrimSpace(strings.ToUpper(code)), "-")
	if len(parts) != 3 || parts[0] != codePrefix {
		return Ref{}, ErrInvalidCode
	}
	body, check := parts[1], parts[2]
	if len(body) < 2 || len(check) != 1 {
		return Ref{}, ErrInvalidCode
	}

	var kind Kind
	switch body[0] {
	case 'C':
		kind = KindCustomer
	case 'D':
		kind = KindDependent
	default:
		return Ref{}, ErrInvalidCode
	}

	id, err := strconv.ParseInt(body[1:], 10, 64)
	if err != nil || id <= 0 {
		return Ref{}, ErrInvalidCode
	}

	if check[0] != checkChar(body[0], id) {
		return Ref{}, ErrInvalidCode
	}
	return Ref{Kind: kind, ID: id}, nil
}

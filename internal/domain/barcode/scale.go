// Package barcode recognizes in-store scale labels (EAN-13, prefix 2).
//
// Layout: P V CCCCC VVVVV D
//
//	P     format prefix, always '2' (in-store numbering range)
//	V     variant digit: '0'..'6' weight in grams, '7'..'9' price in centavos
//	CCCCC product code, zero-padded
//	VVVVV value field (grams or centavos)
//	D     EAN-13 check digit
//
// Parse is a recognizer, not a validator: anything that does not decode
// cleanly (wrong length, non-digits, bad check digit) is reported as
// not-a-scale-label and the caller falls back to a plain catalog lookup.
// Corrupt payloads behind a matching prefix are rejected the same way, never
// decoded best-effort.
package barcode

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	labelLength  = 13
	formatPrefix = '2'

	codeStart  = 2
	codeEnd    = 7
	valueStart = 7
	valueEnd   = 12
)

var (
	ErrProductCodeTooLong = errors.New("product code exceeds five digits")
	ErrValueOutOfRange    = errors.New("value does not fit the five-digit field")
)

// Result is the decoded content of a scale label. Exactly one of WeightKg
// (IsWeight true) or Price (IsWeight false) is meaningful.
type Result struct {
	ProductCode string
	IsWeight    bool
	WeightKg    decimal.Decimal
	Price       decimal.Decimal
}

// Parse decodes raw into a Result. The second return value reports whether
// raw is a well-formed scale label; when false the Result is zero.
func Parse(raw string) (Result, bool) {
	if len(raw) != labelLength || raw[0] != formatPrefix {
		return Result{}, false
	}
	for i := 0; i < labelLength; i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return Result{}, false
		}
	}
	if checkDigit(raw[:labelLength-1]) != raw[labelLength-1] {
		return Result{}, false
	}

	value, err := strconv.ParseInt(raw[valueStart:valueEnd], 10, 64)
	if err != nil {
		return Result{}, false
	}

	res := Result{ProductCode: raw[codeStart:codeEnd]}
	if raw[1] <= '6' {
		res.IsWeight = true
		res.WeightKg = decimal.New(value, -3) // grams -> kg, 3 decimal places
	} else {
		res.Price = decimal.New(value, -2) // centavos -> currency units
	}
	return res, true
}

// EncodeWeight builds the label for productCode weighing weightKg. Used by
// receipt reprint and by the round-trip tests.
func EncodeWeight(productCode string, weightKg decimal.Decimal) (string, error) {
	grams := weightKg.Shift(3).Round(0).IntPart()
	return encode('0', productCode, grams)
}

// EncodePrice builds the label for productCode totalling price.
func EncodePrice(productCode string, price decimal.Decimal) (string, error) {
	centavos := price.Shift(2).Round(0).IntPart()
	return encode('7', productCode, centavos)
}

func encode(variant byte, productCode string, value int64) (string, error) {
	if len(productCode) > codeEnd-codeStart {
		return "", ErrProductCodeTooLong
	}
	if value < 0 || value > 99999 {
		return "", ErrValueOutOfRange
	}

	body := string(formatPrefix) + string(variant) + pad(productCode, 5) + pad(strconv.FormatInt(value, 10), 5)
	return body + string(checkDigit(body)), nil
}

func pad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// checkDigit computes the EAN-13 check digit for the first twelve digits.
func checkDigit(body string) byte {
	sum := 0
	for i, c := range []byte(body) {
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return byte('0' + (10-sum%10)%10)
}

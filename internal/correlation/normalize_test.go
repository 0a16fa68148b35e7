package correlation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mail-calendar-automation/internal/correlation"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		strip bool
	}{
		{name: "empty", in: "", want: ""},
		{name: "upper case accents", in: "PÁDEL", want: "padel"},
		{name: "every vowel variant", in: "áàäâ éèëê íìïî óòöô úùüû", want: "aaaa eeee iiii oooo uuuu"},
		{name: "upper case grave", in: "ÀÈÌÒÙ", want: "aeiou"},
		{name: "keeps other marks", in: "Año Ñandú", want: "año ñandu"},
		{name: "keeps punctuation", in: "Clase: Yoga!", want: "clase: yoga!"},
		{name: "strips punctuation", in: "Clase: Yoga!", want: "clase yoga", strip: true},
		{name: "strip keeps digits", in: "Pista #3, 10:00", want: "pista 3 1000", strip: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := correlation.Normalizer{StripNonAlphanumeric: tt.strip}
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalize_DefaultMatchesZeroNormalizer(t *testing.T) {
	assert.Equal(t, correlation.Normalizer{}.Normalize("Tenis Café"), correlation.Normalize("Tenis Café"))
}

package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"immoportal/internal/domain"
)

func TestEmail(t *testing.T) {
	e, ok := Email("  Fatou@ImmoSenegal.com ")
	assert.True(t, ok)
	assert.Equal(t, "fatou@immosenegal.com", e)

	_, ok = Email("not-an-email")
	assert.False(t, ok)
	_, ok = Email("")
	assert.False(t, ok)
}

func TestPassword(t *testing.T) {
	assert.True(t, Password("Passw0rd!"))
	assert.False(t, Password("password"))
	assert.False(t, Password("Sh0rt!"))
	assert.False(t, Password("NoDigits!!"))
}

func TestQ(t *testing.T) {
	q, ok := Q("  Thiès centre ")
	assert.True(t, ok)
	assert.Equal(t, "Thiès centre", q)

	for _, in := range []string{"Villa (Almadies)", "Villa & piscine", "Saly!", "F4 #2", "<script>"} {
		q, ok = Q(in)
		assert.True(t, ok, in)
		assert.Equal(t, in, q)
	}

	_, ok = Q("   ")
	assert.False(t, ok)
	_, ok = Q("villa\x00")
	assert.False(t, ok)
	_, ok = Q("villa\nsaly")
	assert.False(t, ok)
	_, ok = Q("\xff\xfe")
	assert.False(t, ok)
	_, ok = Q(strings.Repeat("a", MaxQuery+1))
	assert.False(t, ok, "over-long queries are rejected, not cut")
	_, ok = Q(strings.Repeat("é", MaxQuery))
	assert.True(t, ok)
}

func TestNameAndPhone(t *testing.T) {
	n, ok := Name("  Aïcha <b>Ndiaye</b> ")
	assert.True(t, ok)
	assert.Equal(t, "Aïcha Ndiaye", n)

	_, ok = Name("")
	assert.False(t, ok)

	p, ok := Phone("+221 77 123 45 67")
	assert.True(t, ok)
	assert.Equal(t, "+221 77 123 45 67", p)
	_, ok = Phone("")
	assert.True(t, ok, "phone is optional")
	_, ok = Phone("call me")
	assert.False(t, ok)
}

func TestEnums(t *testing.T) {
	r, ok := Role("agent")
	assert.True(t, ok)
	assert.Equal(t, domain.RoleAgent, r)
	_, ok = Role("superuser")
	assert.False(t, ok)

	_, ok = PropertyType("house")
	assert.True(t, ok)
	_, ok = PropertyStatus("sold")
	assert.True(t, ok)
	_, ok = PropertyStatus("lost")
	assert.False(t, ok)
	_, ok = Region("Kaolack")
	assert.True(t, ok)
	_, ok = Region("Paris")
	assert.False(t, ok)
}

func TestNumbers(t *testing.T) {
	p, ok := Price("85 000 000")
	assert.True(t, ok)
	assert.Equal(t, 85000000.0, p)
	_, ok = Price("0")
	assert.False(t, ok)
	_, ok = Price("abc")
	assert.False(t, ok)

	b, ok := PriceBound("")
	assert.True(t, ok)
	assert.Zero(t, b)
	_, ok = PriceBound("-5")
	assert.False(t, ok)

	s, ok := Surface("120")
	assert.True(t, ok)
	if assert.NotNil(t, s) {
		assert.Equal(t, 120.0, *s)
	}
	s, ok = Surface("")
	assert.True(t, ok)
	assert.Nil(t, s)

	n, ok := Count("3")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	_, ok = Count("-1")
	assert.False(t, ok)
}

func TestTextAndClean(t *testing.T) {
	s, ok := Text("<script>alert(1)</script>Villa l'océan & jardin", 200)
	assert.True(t, ok)
	assert.Equal(t, "Villa l'océan & jardin", s)

	_, ok = Text("<b></b>", 200)
	assert.False(t, ok)
	_, ok = Text("abcdef", 3)
	assert.False(t, ok)
}

func TestImages(t *testing.T) {
	got := Images("https://img.example.com/a.jpg\n javascript:alert(1) ,/static/b.jpg,\r\nftp://x")
	assert.Equal(t, []string{"https://img.example.com/a.jpg", "/static/b.jpg"}, got)
}

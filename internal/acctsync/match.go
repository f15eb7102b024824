package acctsync

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ridgepoint/commission-cli/internal/model"
	"github.com/ridgepoint/commission-cli/internal/normalize"
)

// stateAbbrev resolves spelled-out US state names to the two-letter codes
// the ERP uses, so "Texas" and "TX" land on the same composite key.
var stateAbbrev = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT",
	"delaware": "DE", "florida": "FL", "georgia": "GA", "hawaii": "HI",
	"idaho": "ID", "illinois": "IL", "indiana": "IN", "iowa": "IA",
	"kansas": "KS", "kentucky": "KY", "louisiana": "LA", "maine": "ME",
	"maryland": "MD", "massachusetts": "MA", "michigan": "MI",
	"minnesota": "MN", "mississippi": "MS", "missouri": "MO",
	"montana": "MT", "nebraska": "NE", "nevada": "NV",
	"new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM",
	"new york": "NY", "north carolina": "NC", "north dakota": "ND",
	"ohio": "OH", "oklahoma": "OK", "oregon": "OR", "pennsylvania": "PA",
	"rhode island": "RI", "south carolina": "SC", "south dakota": "SD",
	"tennessee": "TN", "texas": "TX", "utah": "UT", "vermont": "VT",
	"virginia": "VA", "washington": "WA", "west virginia": "WV",
	"wisconsin": "WI", "wyoming": "WY",
	"district of columbia": "DC",
}

// foldAccents strips combining marks so "Café" and "Cafe" compare equal.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// normalizePart lowercases, folds accents, drops punctuation, and
// collapses whitespace.
func normalizePart(s string) string {
	s = strings.ToLower(foldAccents(s))
	var b strings.Builder
	lastSpace := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// normalizeState maps a state cell to its two-letter code when possible.
func normalizeState(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 2 {
		return strings.ToUpper(s)
	}
	if abbr, ok := stateAbbrev[strings.ToLower(s)]; ok {
		return abbr
	}
	return strings.ToUpper(normalizePart(s))
}

// CompositeKey builds the fallback match key from normalized
// name+street+city+state+zip. Empty when name is blank; a name-less key
// would collide far too easily.
func CompositeKey(name, street, city, state, zip string) string {
	n := normalizePart(name)
	if n == "" {
		return ""
	}
	return strings.Join([]string{
		n,
		normalizePart(street),
		normalizePart(city),
		normalizeState(state),
		normalizePart(zip),
	}, "|")
}

// Matcher indexes active CRM companies for customer matching. The direct
// account-order-id join is primary; the composite name/address key is the
// documented fallback for customers the join leaves unmatched.
type Matcher struct {
	byJoinKey   map[string]*model.CopperCompany
	byComposite map[string]*model.CopperCompany
}

func NewMatcher(companies []model.CopperCompany) *Matcher {
	m := &Matcher{
		byJoinKey:   make(map[string]*model.CopperCompany),
		byComposite: make(map[string]*model.CopperCompany),
	}
	for i := range companies {
		c := &companies[i]
		if !normalize.Boolean(c.ActiveRaw) {
			continue
		}
		if key := strings.TrimSpace(c.AccountOrderID); key != "" {
			m.byJoinKey[key] = c
		}
		if key := CompositeKey(c.Name, c.Street, c.City, c.State, c.Zip); key != "" {
			m.byComposite[key] = c
		}
	}
	return m
}

// Active reports how many companies are indexed by join key.
func (m *Matcher) Active() int { return len(m.byJoinKey) }

// Match finds the CRM company for an ERP customer.
func (m *Matcher) Match(cust *model.Customer) (*model.CopperCompany, bool) {
	if key := strings.TrimSpace(cust.AccountNumber); key != "" {
		if c, ok := m.byJoinKey[key]; ok {
			return c, true
		}
	}
	key := CompositeKey(cust.Name, cust.ShipStreet, cust.ShipCity, cust.ShipState, cust.ShipZip)
	if key == "" {
		return nil, false
	}
	c, ok := m.byComposite[key]
	return c, ok
}

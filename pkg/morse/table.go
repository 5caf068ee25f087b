package morse

import "fmt"

// Class groups table entries for display.
type Class string

const (
	ClassLetter      Class = "letter"
	ClassDigit       Class = "digit"
	ClassPunctuation Class = "punctuation"
	ClassSeparator   Class = "separator"
)

// Symbol is one entry of the code table.
type Symbol struct {
	Char  rune
	Code  string
	Class Class
}

// Order matters: the chart prints entries in this order.
var symbols = []Symbol{
	{'A', ".-", ClassLetter},
	{'B', "-...", ClassLetter},
	{'C', "-.-.", ClassLetter},
	{'D', "-..", ClassLetter},
	{'E', ".", ClassLetter},
	{'F', "..-.", ClassLetter},
	{'G', "--.", ClassLetter},
	{'H', "....", ClassLetter},
	{'I', "..", ClassLetter},
	{'J', ".---", ClassLetter},
	{'K', "-.-", ClassLetter},
	{'L', ".-..", ClassLetter},
	{'M', "--", ClassLetter},
	{'N', "-.", ClassLetter},
	{'O', "---", ClassLetter},
	{'P', ".--.", ClassLetter},
	{'Q', "--.-", ClassLetter},
	{'R', ".-.", ClassLetter},
	{'S', "...", ClassLetter},
	{'T', "-", ClassLetter},
	{'U', "..-", ClassLetter},
	{'V', "...-", ClassLetter},
	{'W', ".--", ClassLetter},
	{'X', "-..-", ClassLetter},
	{'Y', "-.--", ClassLetter},
	{'Z', "--..", ClassLetter},

	{'0', "-----", ClassDigit},
	{'1', ".----", ClassDigit},
	{'2', "..---", ClassDigit},
	{'3', "...--", ClassDigit},
	{'4', "....-", ClassDigit},
	{'5', ".....", ClassDigit},
	{'6', "-....", ClassDigit},
	{'7', "--...", ClassDigit},
	{'8', "---..", ClassDigit},
	{'9', "----.", ClassDigit},

	{'.', ".-.-.-", ClassPunctuation},
	{',', "--..--", ClassPunctuation},
	{'?', "..--..", ClassPunctuation},
	{'\'', ".----.", ClassPunctuation},
	{'!', "-.-.--", ClassPunctuation},
	{'/', "-..-.", ClassPunctuation},
	{'(', "-.--.", ClassPunctuation},
	{')', "-.--.-", ClassPunctuation},
	{'&', ".-...", ClassPunctuation},
	{':', "---...", ClassPunctuation},
	{';', "-.-.-.", ClassPunctuation},
	{'=', "-...-", ClassPunctuation},
	{'+', ".-.-.", ClassPunctuation},
	{'-', "-....-", ClassPunctuation},
	{'_', "..--.-", ClassPunctuation},
	{'"', ".-..-.", ClassPunctuation},
	{'$', "...-..-", ClassPunctuation},
	{'@', ".--.-.", ClassPunctuation},

	{' ', WordSeparator, ClassSeparator},
}

var (
	forward = buildForward(symbols)
	reverse = invert(forward)
)

func buildForward(list []Symbol) map[rune]string {
	m := make(map[rune]string, len(list))
	for _, s := range list {
		if _, dup := m[s.Char]; dup {
			panic(fmt.Sprintf("morse: duplicate character %q in table", s.Char))
		}
		m[s.Char] = s.Code
	}
	return m
}

// invert panics if two characters share a code; the reverse table would
// otherwise depend on map iteration order.
func invert(src map[rune]string) map[string]rune {
	m := make(map[string]rune, len(src))
	for r, code := range src {
		if other, dup := m[code]; dup {
			panic(fmt.Sprintf("morse: code %q assigned to both %q and %q", code, other, r))
		}
		m[code] = r
	}
	return m
}

// lookup returns the code for r. r must already be uppercase.
func lookup(r rune) (string, bool) {
	code, ok := forward[r]
	return code, ok
}

func reverseLookup(code string) (rune, bool) {
	r, ok := reverse[code]
	return r, ok
}

// Symbols returns a copy of the table in chart order.
func Symbols() []Symbol {
	out := make([]Symbol, len(symbols))
	copy(out, symbols)
	return out
}

// SymbolsOf returns the entries of one class in chart order.
func SymbolsOf(class Class) []Symbol {
	var out []Symbol
	for _, s := range symbols {
		if s.Class == class {
			out = append(out, s)
		}
	}
	return out
}

package command

import "strings"

// customCooldownSeconds rate-limits dynamically resolved custom counters.
// They have no per-command cooldown configuration of their own.
const customCooldownSeconds = 10

const maxCounterIDLen = 64

// Resolution is the outcome of parsing one chat message.
type Resolution struct {
	Def Definition
	// Amount is the explicit amount parsed from the token, 0 when the
	// message carried none. Clamping happens in the engine.
	Amount int
	// CooldownKey is the canonical base form shared by all amount
	// variants of the command.
	CooldownKey string
	// Custom is set when the command resolved to a custom counter.
	Custom *CustomCounter
}

// Resolve parses raw chat text into a command. Resolution attempts, in
// order: exact match, suffix-amount form, embedded-amount form, then
// dynamic custom-counter lookup. Static matches always win over dynamic
// ones, and broadcaster overrides shadow built-in defaults with the same
// key.
func Resolve(raw string, defaults, overrides map[string]Definition, custom map[string]CustomCounter) (Resolution, bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Resolution{}, false
	}
	candidate := strings.ToLower(fields[0])

	// Exact match: !sw+
	if def, ok := lookup(candidate, defaults, overrides); ok {
		return Resolution{Def: def, CooldownKey: canonicalKey(def, candidate)}, true
	}

	// Suffix-amount form: !sw+5 -> base !sw+, amount 5
	if base, amount, ok := splitTrailingDigits(candidate); ok {
		if def, found := lookup(base, defaults, overrides); found {
			return Resolution{Def: def, Amount: amount, CooldownKey: canonicalKey(def, base)}, true
		}
	}

	// Embedded-amount form: !sw5+ -> base !sw+, amount 5
	if base, amount, ok := splitEmbeddedAmount(candidate); ok {
		if def, found := lookup(base, defaults, overrides); found {
			return Resolution{Def: def, Amount: amount, CooldownKey: canonicalKey(def, base)}, true
		}
	}

	return resolveCustom(candidate, custom)
}

// canonicalKey picks the cooldown key for a static match: the alias
// target when the definition names one, otherwise the matched base form.
func canonicalKey(def Definition, matched string) string {
	if def.Key != "" {
		return def.Key
	}
	return matched
}

func lookup(key string, defaults, overrides map[string]Definition) (Definition, bool) {
	if def, ok := overrides[key]; ok {
		return def, true
	}
	def, ok := defaults[key]
	return def, ok
}

// splitTrailingDigits splits <base><digits>. The digit run must be
// non-empty and must not consume the whole token.
func splitTrailingDigits(tok string) (base string, amount int, ok bool) {
	i := len(tok)
	for i > 0 && isDigit(tok[i-1]) {
		i--
	}
	if i == len(tok) || i == 0 {
		return "", 0, false
	}
	return tok[:i], atoi(tok[i:]), true
}

// splitEmbeddedAmount splits <prefix><digits><op> where op is a trailing
// '+' or '-', reconstructing <prefix><op> as the lookup key.
func splitEmbeddedAmount(tok string) (base string, amount int, ok bool) {
	if len(tok) < 3 {
		return "", 0, false
	}
	op := tok[len(tok)-1]
	if op != '+' && op != '-' {
		return "", 0, false
	}
	i := len(tok) - 1
	for i > 0 && isDigit(tok[i-1]) {
		i--
	}
	if i == len(tok)-1 || i == 0 {
		return "", 0, false
	}
	return tok[:i] + string(op), atoi(tok[i : len(tok)-1]), true
}

// resolveCustom matches the token against configured custom counters by
// id or normalized trigger. The token may carry a trailing operator and
// amount: !kills, !kills+, !kills-, !kills+2.
func resolveCustom(candidate string, custom map[string]CustomCounter) (Resolution, bool) {
	tok := strings.TrimPrefix(candidate, "!")
	if tok == "" {
		return Resolution{}, false
	}

	// Whole-token match first: counter ids may themselves end in digits
	// ("kills2"), so a bare invocation must be tried before any peeling.
	if validCounterID(tok) {
		if cc, ok := matchCustom(tok, custom); ok {
			return customResolution(cc, 0, 0, false), true
		}
	}

	// Peel optional trailing digits, then an optional operator.
	rest := tok
	amount := 0
	hasAmount := false
	i := len(rest)
	for i > 0 && isDigit(rest[i-1]) {
		i--
	}
	if i < len(rest) {
		amount = atoi(rest[i:])
		hasAmount = true
		rest = rest[:i]
	}
	var op byte
	if len(rest) > 0 {
		if last := rest[len(rest)-1]; last == '+' || last == '-' {
			op = last
			rest = rest[:len(rest)-1]
		}
	}
	// Digits with no operator would have been a suffix-amount static
	// form; for custom counters an amount requires an operator.
	if hasAmount && op == 0 {
		return Resolution{}, false
	}
	if !validCounterID(rest) {
		return Resolution{}, false
	}

	cc, ok := matchCustom(rest, custom)
	if !ok {
		return Resolution{}, false
	}
	return customResolution(cc, op, amount, hasAmount), true
}

// customResolution builds the synthetic definition for a custom counter
// invocation. A missing amount falls back to the counter's configured
// step for the operator's direction.
func customResolution(cc CustomCounter, op byte, amount int, hasAmount bool) Resolution {
	def := Definition{
		Tier:            TierEveryone,
		CooldownSeconds: customCooldownSeconds,
		Targets:         []string{cc.ID},
		Enabled:         true,
		Template:        "{{icon}} {{name}}: {{count}}",
	}
	switch op {
	case '-':
		def.Action = ActionDecrement
		if !hasAmount {
			amount = cc.DecrementBy
		}
	default:
		// Bare invocations increment by the counter's configured step.
		def.Action = ActionIncrement
		if !hasAmount {
			amount = cc.IncrementBy
		}
	}
	return Resolution{
		Def:         def,
		Amount:      amount,
		CooldownKey: "!" + cc.ID,
		Custom:      &cc,
	}
}

// matchCustom matches a bare id against counter ids first, then against
// normalized triggers.
func matchCustom(id string, custom map[string]CustomCounter) (CustomCounter, bool) {
	if cc, ok := custom[id]; ok {
		return cc, true
	}
	normalized := "!" + id
	for _, cc := range custom {
		for _, trig := range cc.Triggers {
			if trig == normalized {
				return cc, true
			}
		}
	}
	return CustomCounter{}, false
}

// NormalizeTrigger canonicalizes a long-form/alias trigger: lowercase,
// ensure a leading '!', strip any trailing '+'/'-' and digits.
func NormalizeTrigger(trigger string) string {
	t := strings.ToLower(strings.TrimSpace(trigger))
	if t == "" {
		return ""
	}
	for len(t) > 0 && isDigit(t[len(t)-1]) {
		t = t[:len(t)-1]
	}
	for len(t) > 0 {
		if last := t[len(t)-1]; last == '+' || last == '-' {
			t = t[:len(t)-1]
			continue
		}
		break
	}
	if t == "" || t == "!" {
		return ""
	}
	if t[0] != '!' {
		t = "!" + t
	}
	return t
}

func validCounterID(id string) bool {
	if id == "" || len(id) > maxCounterIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1<<30 {
			return 1 << 30
		}
	}
	return n
}

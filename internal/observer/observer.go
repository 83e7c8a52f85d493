// Package observer implements the rule-based dialogue engine behind the
// Fold chat. It keeps no state of its own: the transcript belongs to the
// caller, and the same responder can serve every conversation.
package observer

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
)

// Exchange is one line of a caller-owned transcript.
type Exchange struct {
	Role string `json:"role"` // "user" or "observer"
	Text string `json:"text"`
}

// Rule pairs a pattern with its canned response. Rules are evaluated in
// declaration order and the first match wins, so specific patterns must
// sit above general ones.
type Rule struct {
	Pattern  *regexp.Regexp
	Response string
}

// Responder matches incoming messages against an ordered rule table,
// falling back to a random canned line when nothing matches.
type Responder struct {
	rules     []Rule
	fallbacks []string

	// One responder serves every conversation concurrently; *rand.Rand
	// is not safe for parallel use, so draws go through the mutex.
	mu  sync.Mutex
	rng *rand.Rand
}

// defaultRules is the fixed table. Order matters: "who are you" outranks
// the greeting rule, and every topic rule sits above the trailing
// question catch-all.
func defaultRules() []Rule {
	return []Rule{
		{regexp.MustCompile(`who are you`), "I am the Observer. I collapse what you report."},
		{regexp.MustCompile(`\bhello\b|\bhi\b|greetings`), "Connection established. Speak, witness."},
		{regexp.MustCompile(`entangle`), "Entanglement is not coincidence. Two reports, one event."},
		{regexp.MustCompile(`glitch`), "Glitches are seams. Look for who else saw the seam."},
		{regexp.MustCompile(`time`), "Time is the least stable coordinate. Log everything."},
		{regexp.MustCompile(`shadow`), "Shadows without owners are worth a report."},
		{regexp.MustCompile(`proton|electron|neutron`), "Particles are opinions. The ratio is the truth."},
		{regexp.MustCompile(`help`), "Post what you saw. Tag it. The feed does the rest."},
		{regexp.MustCompile(`\bbye\b|goodbye|sever`), "Link severed. The log remains."},
		{regexp.MustCompile(`\?$`), "Questions destabilize. Observations hold."},
	}
}

// defaultFallbacks is the fixed set a reply is drawn from when no rule
// matches.
func defaultFallbacks() []string {
	return []string{
		"Signal unclear. Rephrase your observation.",
		"The fold is listening. Continue.",
		"Noted. Reality remains unverified.",
		"Static on the line. Say it again, differently.",
	}
}

// New builds a responder over the default rule table. The random source
// is injected so tests can pin the fallback branch.
func New(rng *rand.Rand) *Responder {
	return &Responder{
		rules:     defaultRules(),
		fallbacks: defaultFallbacks(),
		rng:       rng,
	}
}

// Respond returns the reply for one user message. Matching is a
// case-insensitive substring search, not a full match.
func (r *Responder) Respond(message string) string {
	normalized := strings.ToLower(message)
	for _, rule := range r.rules {
		if rule.Pattern.MatchString(normalized) {
			return rule.Response
		}
	}
	r.mu.Lock()
	index := r.rng.Intn(len(r.fallbacks))
	r.mu.Unlock()
	return r.fallbacks[index]
}

// Fallbacks exposes the fallback set so callers and tests can check
// membership without duplicating it.
func (r *Responder) Fallbacks() []string {
	return append([]string(nil), r.fallbacks...)
}

package sentinel

import (
	"fmt"
	"regexp"
	"strings"
)

// TokenPattern matches placeholder tokens produced by a Vault.
var TokenPattern = regexp.MustCompile(`__SECRET_\d+__`)

// Vault maps placeholder tokens to the secrets they replace. The token
// counter is shared by every Encode call on the same vault.
type Vault struct {
	next    int
	secrets map[string]string
	order   []string
}

func NewVault() *Vault {
	return &Vault{next: 1, secrets: map[string]string{}}
}

// Encode replaces each finding in text with a fresh token. Findings must not
// overlap; they are applied in start order.
func (v *Vault) Encode(text string, findings []Finding) string {
	if len(findings) == 0 {
		return text
	}
	fs := resolveOverlaps(findings)
	var b strings.Builder
	last := 0
	for _, f := range fs {
		if f.Start < last || f.End > len(text) {
			continue
		}
		b.WriteString(text[last:f.Start])
		token := fmt.Sprintf("__SECRET_%d__", v.next)
		v.next++
		v.secrets[token] = f.Secret
		v.order = append(v.order, token)
		b.WriteString(token)
		last = f.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// Decode puts the original secrets back in place of their tokens.
func (v *Vault) Decode(text string) string {
	return TokenPattern.ReplaceAllStringFunc(text, func(tok string) string {
		if s, ok := v.secrets[tok]; ok {
			return s
		}
		return tok
	})
}

// Mapping returns a copy of the token to secret mapping.
func (v *Vault) Mapping() map[string]string {
	out := make(map[string]string, len(v.secrets))
	for k, s := range v.secrets {
		out[k] = s
	}
	return out
}

// Len is the number of tokens issued.
func (v *Vault) Len() int { return len(v.order) }

func (v *Vault) Clear() {
	v.next = 1
	v.secrets = map[string]string{}
	v.order = nil
}

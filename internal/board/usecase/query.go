package usecase

import (
	"fmt"
	"net/mail"
	"strings"
)

// BuildSearchQuery turns a board's filter configuration into a provider
// query: a domain clause (from:D OR to:D per domain) ANDed with the
// space-joined keywords. The provider treats space as implicit AND.
func BuildSearchQuery(domainList, keywords string) string {
	var parts []string

	var domainClauses []string
	for _, d := range strings.Split(domainList, ",") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		domainClauses = append(domainClauses, fmt.Sprintf("from:%s OR to:%s", d, d))
	}
	if len(domainClauses) > 0 {
		parts = append(parts, "("+strings.Join(domainClauses, " OR ")+")")
	}

	var keywordTerms []string
	for _, kw := range strings.Split(keywords, ",") {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		keywordTerms = append(keywordTerms, kw)
	}
	if len(keywordTerms) > 0 {
		parts = append(parts, strings.Join(keywordTerms, " "))
	}

	return strings.Join(parts, " ")
}

// ExtractDomains parses an address header ("Name <a@x.com>, b@y.org") and
// returns the lowercased domain of every address. Unparseable headers yield
// nothing rather than an error; stats are best-effort.
func ExtractDomains(header string) []string {
	if header == "" {
		return nil
	}

	addresses, err := mail.ParseAddressList(header)
	if err != nil {
		return nil
	}

	var domains []string
	for _, addr := range addresses {
		at := strings.LastIndex(addr.Address, "@")
		if at < 0 || at == len(addr.Address)-1 {
			continue
		}
		domains = append(domains, strings.ToLower(addr.Address[at+1:]))
	}
	return domains
}

package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const dnsLookupTimeout = 3 * time.Second

// IsEmailDomainValid verifica se o domínio do e-mail resolve de verdade
// (MX ou, na falta, A/AAAA). Barra typo óbvio no cadastro da clínica sem
// depender de e-mail de confirmação.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := strings.ToLower(email[at+1:])
	if !strings.Contains(domain, ".") {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), dnsLookupTimeout)
	defer cancel()

	if mx, err := net.DefaultResolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, domain)
	return err == nil && len(ips) > 0
}

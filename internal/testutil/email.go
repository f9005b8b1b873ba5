package testutil

import (
	"sync"

	"jobportal/internal/email"
)

// CapturingProvider запоминает отправленные письма вместо отправки
type CapturingProvider struct {
	mu   sync.Mutex
	sent []*email.Email

	// FailWith - если не nil, Send возвращает эту ошибку
	FailWith error
}

func NewCapturingProvider() *CapturingProvider {
	return &CapturingProvider{}
}

func (p *CapturingProvider) Send(e *email.Email) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailWith != nil {
		return p.FailWith
	}
	p.sent = append(p.sent, e)
	return nil
}

func (p *CapturingProvider) Validate() error { return nil }

func (p *CapturingProvider) Close() error { return nil }

// Sent - копия списка отправленных писем
func (p *CapturingProvider) Sent() []*email.Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*email.Email(nil), p.sent...)
}

// Fail переключает провайдер в режим ошибки (nil - снова успешно)
func (p *CapturingProvider) Fail(err error) {
	p.mu.Lock()
	p.FailWith = err
	p.mu.Unlock()
}

package payment

// Provider identifies the payment backend a payment is initiated against.
// The real-gateway call is an extension point; today only intent is recorded
// and results arrive through RecordResult.
type Provider interface {
	Name() string
}

// StubProvider is the development backend: it never charges anything.
type StubProvider struct{}

func NewStubProvider() StubProvider { return StubProvider{} }

func (StubProvider) Name() string { return "stub" }

// NewProvider resolves a configured provider name. Names without a dedicated
// implementation are recorded verbatim on the payment row.
func NewProvider(name string) Provider {
	switch name {
	case "stub", "":
		return NewStubProvider()
	default:
		return namedProvider(name)
	}
}

type namedProvider string

func (p namedProvider) Name() string { return string(p) }

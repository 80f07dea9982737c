package pg

// Registry holds the configured gateways in registration order.
type Registry struct {
	gateways []Gateway
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(gw Gateway) {
	r.gateways = append(r.gateways, gw)
}

// ForPartner returns the first registered gateway that claims support for
// the partner. Two gateways claiming the same partner is a configuration
// mistake; registration order decides and nothing else does.
func (r *Registry) ForPartner(partnerID int64) (Gateway, error) {
	for _, gw := range r.gateways {
		if gw.Supports(partnerID) {
			return gw, nil
		}
	}
	return nil, ErrNoGatewayForPartner
}

package audithook

// Audit event actions. Each constant corresponds to one client lifecycle
// event and becomes the Action field of the audit event.
const (
	ActionConnectionLost      = "connection.lost"
	ActionConnectionRecovered = "connection.recovered"
	ActionClientClosed        = "client.closed"
)

// Audit event categories group related actions.
const (
	CategoryConnection = "zeebe.connection"
	CategoryClient     = "zeebe.client"
)

// Resource types used as the Resource field in audit events.
const (
	ResourceGateway = "gateway"
	ResourceClient  = "client"
)

// AllActions returns every action this hook can emit.
func AllActions() []string {
	return []string{
		ActionConnectionLost,
		ActionConnectionRecovered,
		ActionClientClosed,
	}
}

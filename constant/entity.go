package constant

// Entity names the tables whose identifiers can be generated or renumbered.
type Entity string

const (
	EntityClient    Entity = "clients"
	EntityWarehouse Entity = "warehouses"
	EntityProduct   Entity = "products"
)

type contextKey string

// UsernameKey carries the authenticated database username through request context.
const UsernameKey contextKey = "username"

package endpoints

const (
	// DefaultProductionBaseURI is the default base URI of the production collection service.
	DefaultProductionBaseURI = "https://events.mbsj.com/"

	// DefaultNonProductionBaseURI is the default base URI of the staging collection service.
	DefaultNonProductionBaseURI = "https://events-staging.mbsj.com/"

	// EventsRequestPath is the URL path that event records are posted to.
	EventsRequestPath = "/v1/events"
)

package interfaces

// ServiceEndpoints allow configuration of custom service URIs.
//
// If you want to set non-default values for any of these fields, set the ServiceEndpoints field
// in the tracker's Options struct. An empty field means the standard endpoint for that
// environment is used.
//
// Which of the two URIs an event is sent to depends on the Environment of the tracker's current
// Config at the time of delivery.
type ServiceEndpoints struct {
	Production    string
	NonProduction string
}

package etcomponents

import "github.com/mbsj/go-event-tracker/interfaces"

// CustomEndpoints specifies the base URIs of the collection service for both environments, for
// instance to send events through a forwarding proxy or to a local test server.
//
//	options := eventtracker.Options{
//	    ServiceEndpoints: etcomponents.CustomEndpoints("https://prod-proxy", "https://staging-proxy"),
//	}
//
// If only one of the two is customized, the tracker logs an error and the other environment uses
// its default.
func CustomEndpoints(productionBaseURI, nonProductionBaseURI string) interfaces.ServiceEndpoints {
	return interfaces.ServiceEndpoints{
		Production:    productionBaseURI,
		NonProduction: nonProductionBaseURI,
	}
}

// SingleEndpoint specifies one base URI that receives events from both environments. The record's
// isProduction field still tells them apart.
func SingleEndpoint(baseURI string) interfaces.ServiceEndpoints {
	return CustomEndpoints(baseURI, baseURI)
}

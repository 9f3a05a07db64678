// Package etmetrics records event delivery metrics with the Prometheus client library.
//
//	observer, err := etmetrics.NewDeliveryObserver(prometheus.DefaultRegisterer, "myapp")
//	if err != nil { ... }
//	options := eventtracker.Options{
//	    Events: etcomponents.SendEvents().DeliveryObserver(observer),
//	}
package etmetrics

package mocks

import "github.com/mbsj/go-event-tracker/subsystems"

// SingleComponentConfigurer hands a component that the test already created to the tracker, in place of
// one of the etcomponents builders.
type SingleComponentConfigurer[T any] struct {
	Instance T
}

func (c SingleComponentConfigurer[T]) Build(subsystems.ClientContext) (T, error) { //nolint:revive
	return c.Instance, nil
}

// ComponentConfigurerThatReturnsError simulates a component that cannot be created, such as a queue
// store whose database cannot be opened.
type ComponentConfigurerThatReturnsError[T any] struct {
	Err error
}

func (c ComponentConfigurerThatReturnsError[T]) Build(subsystems.ClientContext) (T, error) { //nolint:revive
	var zero T
	return zero, c.Err
}

// ComponentConfigurerThatCapturesClientContext wraps another configurer and records the ClientContext
// that the tracker passed to it, along with the number of times it was built.
type ComponentConfigurerThatCapturesClientContext[T any] struct {
	Configurer            subsystems.ComponentConfigurer[T]
	ReceivedClientContext subsystems.ClientContext
	BuildCount            int
}

func (c *ComponentConfigurerThatCapturesClientContext[T]) Build( //nolint:revive
	clientContext subsystems.ClientContext,
) (T, error) {
	c.ReceivedClientContext = clientContext
	c.BuildCount++
	return c.Configurer.Build(clientContext)
}

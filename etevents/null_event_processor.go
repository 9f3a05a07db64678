package etevents

type nullEventProcessor struct{}

// NewNullEventProcessor creates a no-op implementation of EventProcessor, which discards every event.
func NewNullEventProcessor() EventProcessor {
	return nullEventProcessor{}
}

func (n nullEventProcessor) Start() {}

func (n nullEventProcessor) Enqueue(data []byte) bool { return true }

func (n nullEventProcessor) Flush() {}

func (n nullEventProcessor) Len() int { return 0 }

func (n nullEventProcessor) Close() error { return nil }

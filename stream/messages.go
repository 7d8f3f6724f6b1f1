package stream

type (
	// Ref is an opaque actor identity. Refs are compared by address.
	Ref interface {
		Address() string
	}

	// MessageID correlates a request with its response. Zero means no response is expected.
	MessageID uint64

	// Envelope carries a message together with the addressing information needed to answer it.
	// Stages is a forwarding stack for stream requests: the last element is the next hop the
	// request travels to. Responses always go straight back to Sender.
	Envelope struct {
		Sender  Ref
		ID      MessageID
		Stages  []Ref
		Content any
	}

	// Response is delivered to whoever requested a stream once the stream reaches a terminal state.
	Response struct {
		Value any
		Err   error
	}
)

type (
	// OpenStream is the handshake that establishes a new path. Slot is the sender's pending slot.
	// Handshake is the payload built by the sender's Behavior.
	OpenStream struct {
		Slot      Slot
		Handshake any
		PrevStage Ref
		Original  Ref
		Priority  Priority
	}

	// UpstreamMsg travels from a consumer back to its producer.
	// Slots.Sender is the consumer's slot, Slots.Receiver the producer's slot, except for
	// AckOpen, which answers a handshake and carries the handshake's pair completed by the
	// acceptor: Sender is the producer's pending slot, Receiver the consumer's new inbound slot.
	UpstreamMsg struct {
		Slots   Slots
		Sender  Ref
		Content any
	}

	// DownstreamMsg travels from a producer to a consumer.
	// Slots.Sender is the producer's slot, Slots.Receiver the consumer's inbound slot.
	DownstreamMsg struct {
		Slots   Slots
		Sender  Ref
		Content any
	}
)

// Upstream message contents.
type (
	AckOpen struct {
		RebindFrom       Ref
		RebindTo         Ref
		InitialDemand    int
		DesiredBatchSize int
	}

	AckBatch struct {
		NewCapacity      int
		DesiredBatchSize int
		AcknowledgedID   int64
	}

	Drop struct{}

	ForcedDrop struct {
		Reason error
	}
)

// Downstream message contents.
type (
	Batch struct {
		Size int
		Xs   any
		ID   int64
	}

	Close struct{}

	ForcedClose struct {
		Reason error
	}
)

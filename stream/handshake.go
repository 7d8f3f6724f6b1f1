package stream

import "fmt"

// Handshake is the payload producers built by this package attach to OpenStream. Acceptors use it
// to refuse streams whose elements they cannot consume.
type Handshake struct {
	ElementType string
}

func HandshakeFor[T any]() Handshake {
	var zero T
	return Handshake{ElementType: fmt.Sprintf("%T", zero)}
}

// CheckHandshake verifies that open announces elements of type T.
func CheckHandshake[T any](open *OpenStream) error {
	h, ok := open.Handshake.(Handshake)
	if !ok {
		return fmt.Errorf("%w: unexpected handshake payload %T", ErrInvalidStreamState, open.Handshake)
	}
	if want := HandshakeFor[T](); h != want {
		return fmt.Errorf("%w: stream of %s offered, %s expected", ErrInvalidStreamState, h.ElementType, want.ElementType)
	}
	return nil
}

package actor

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewSystem),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, system *System) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			system.Stop()
			return nil
		},
	})
}

package client

import (
	"context"
	"time"
)

// DefaultWatchInterval cadencia de sondeo cuando no se indica otra.
const DefaultWatchInterval = 10 * time.Second

// Watch sondea last_update cada interval y entrega el inventario fresco cada
// vez que el marcador cambia. La primera entrega ocurre al arrancar, sin
// esperar un cambio. Los errores transitorios (servidor caído, red de la LAN)
// no cortan el bucle: se reintenta en el siguiente tick. Bloquea hasta que
// ctx se cancela y devuelve ctx.Err().
func (c *Client) Watch(ctx context.Context, interval time.Duration, fn func(items []Item, lastUpdate string)) error {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	var seen string
	deliver := func() {
		list, err := c.ListItems(ctx)
		if err != nil {
			return
		}
		seen = list.LastUpdate
		fn(list.Items, list.LastUpdate)
	}

	deliver()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			lu, err := c.LastUpdate(ctx)
			if err != nil {
				continue
			}
			// El marcador es un string opaco: basta con que cambie.
			if lu != seen {
				deliver()
			}
		}
	}
}

package interfaces

import (
	"github.com/google/wire"

	domaincamera "github.com/janhq/aura-server/internal/domain/camera"
	"github.com/janhq/aura-server/internal/infrastructure/camera"
	"github.com/janhq/aura-server/internal/interfaces/httpserver"
	"github.com/janhq/aura-server/internal/interfaces/httpserver/handlers"
	"github.com/janhq/aura-server/internal/interfaces/httpserver/routes"
)

// InterfacesProvider provides all interface dependencies.
var InterfacesProvider = wire.NewSet(
	ProvideFrameSink,
	handlers.HandlerProvider,
	routes.RouteProvider,
	httpserver.New,
)

// ProvideFrameSink exposes the relayed camera to the frame endpoint. Other camera
// sources do not accept frames.
func ProvideFrameSink(device domaincamera.Device) handlers.FrameSink {
	if relay, ok := device.(*camera.RelayDevice); ok {
		return relay
	}
	return nil
}

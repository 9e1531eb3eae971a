package worker

import (
	"github.com/consultium-ai/demo-booking-service/internal/service"
)

// StartDeliveryMonitor registers delivery drift handlers.
func StartDeliveryMonitor(monitor *service.DeliveryMonitor) {
	if monitor == nil {
		return
	}
	monitor.RegisterHandlers()
}

package main

import (
	"delivery_marketplace/config"
	courierhdl "delivery_marketplace/internal/api/courier/handler"
	courierrouter "delivery_marketplace/internal/api/courier/router"
	couriersvc "delivery_marketplace/internal/api/courier/service"
	deliveryhdl "delivery_marketplace/internal/api/delivery/handler"
	deliveryrouter "delivery_marketplace/internal/api/delivery/router"
	deliverysvc "delivery_marketplace/internal/api/delivery/service"
	orderhdl "delivery_marketplace/internal/api/order/handler"
	orderrouter "delivery_marketplace/internal/api/order/router"
	ordersvc "delivery_marketplace/internal/api/order/service"
	orderflowhdl "delivery_marketplace/internal/api/orderflow/handler"
	orderflowrouter "delivery_marketplace/internal/api/orderflow/router"
	orderflowsvc "delivery_marketplace/internal/api/orderflow/service"
	"delivery_marketplace/internal/api/router"
	settinghdl "delivery_marketplace/internal/api/setting/handler"
	settingrouter "delivery_marketplace/internal/api/setting/router"
	settingsvc "delivery_marketplace/internal/api/setting/service"
	shophdl "delivery_marketplace/internal/api/shop/handler"
	shoprouter "delivery_marketplace/internal/api/shop/router"
	shopsvc "delivery_marketplace/internal/api/shop/service"
	supporthdl "delivery_marketplace/internal/api/support/handler"
	supportrouter "delivery_marketplace/internal/api/support/router"
	supportsvc "delivery_marketplace/internal/api/support/service"
	userhdl "delivery_marketplace/internal/api/user/handler"
	userrouter "delivery_marketplace/internal/api/user/router"
	usersvc "delivery_marketplace/internal/api/user/service"
	"delivery_marketplace/internal/cache"
	"delivery_marketplace/internal/global"
	"delivery_marketplace/internal/notification"
)

// services holds the wired services the background workers and the seeder also need.
type services struct {
	flows    *orderflowsvc.OrderFlowService
	settings *settingsvc.SettingService
	queue    *deliverysvc.DeliveryQueueService
	history  *deliverysvc.DeliveryHistoryService
}

// InitServices builds every service from the registered collections and returns the route registrations.
func InitServices(cfg *config.Configuration, flowCache cache.Cache) (services, []router.RegisterFunc) {
	col := global.RegistryCollections.MustGet
	names := global.MongoDB_ColNames

	flows := orderflowsvc.NewOrderFlowService(orderflowsvc.NewMongoStore(col(names.OrderFlows)), flowCache, cfg.FlowCacheTTL)
	users := usersvc.NewUserService(col(names.Users))
	shops := shopsvc.NewShopService(col(names.Shops))
	groups := shopsvc.NewTelegramGroupService(col(names.TelegramGroups))
	couriers := couriersvc.NewCourierService(col(names.Couriers))
	settings := settingsvc.NewSettingService(col(names.Settings))
	tickets := supportsvc.NewSupportTicketService(col(names.SupportTickets))
	queue := deliverysvc.NewDeliveryQueueService(col(names.DeliveryQueue), cfg.DeliveryStuckAfter)
	history := deliverysvc.NewDeliveryHistoryService(col(names.DeliveryHistory))

	notifier := notification.NewNotifier(notification.Lookup{
		Shops:    shops,
		Couriers: couriers,
		Users:    users,
	}, queue, cfg.DeliveryMaxRetries)
	orders := ordersvc.NewOrderService(col(names.Orders), flows, notifier)

	regs := []router.RegisterFunc{
		orderflowrouter.Routes(orderflowhdl.NewOrderFlowHandler(flows)),
		orderrouter.Routes(orderhdl.NewOrderHandler(orders, couriers)),
		shoprouter.Routes(shophdl.NewShopHandler(shops), shophdl.NewGroupHandler(groups)),
		userrouter.Routes(userhdl.NewUserHandler(users)),
		courierrouter.Routes(courierhdl.NewCourierHandler(couriers)),
		settingrouter.Routes(settinghdl.NewSettingHandler(settings)),
		supportrouter.Routes(supporthdl.NewSupportHandler(tickets)),
		deliveryrouter.Routes(deliveryhdl.NewQueueHandler(queue), deliveryhdl.NewHistoryHandler(history)),
	}
	return services{flows: flows, settings: settings, queue: queue, history: history}, regs
}

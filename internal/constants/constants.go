package constants

// 预约单状态常量（orders.status，order_type = 0）
const (
	OrderStatusUnassigned      = 0  // 待派单 / 待接单
	OrderStatusInService       = 1  // 服务中
	OrderStatusDeliveryConfirm = 11 // 配送待确认
	OrderStatusAwaitingVoucher = 20 // 待上传服务凭证
	OrderStatusVerified        = 30 // 已核销完成
)

// 订单类型常量
const (
	OrderTypeReservation = 0 // 预约单
	OrderTypeGoods       = 1 // 实物单
)

// 配送单状态常量（delivery_orders.status）
const (
	DeliveryStatusUnclaimed = 0 // 未接单
	DeliveryStatusClaimed   = 1 // 已接单
	DeliveryStatusConfirmed = 2 // 已送达确认
	DeliveryStatusCancelled = 3 // 已取消
)

// 配送承运类型常量
const (
	DeliveryCarrierSelf     = 0 // 商户自配送
	DeliveryCarrierExternal = 1 // 第三方承运
)

// 花名册状态常量
const (
	RosterStatusDisabled = 0
	RosterStatusEnabled  = 1
)

// 用户状态常量
const (
	UserStatusDisabled = 0
	UserStatusEnabled  = 1
)

// 商户状态常量
const (
	MerchantStatusClosed = 0
	MerchantStatusOpen   = 1
)

// 角色常量
const (
	RoleService = "service"
	RoleStaff   = "staff"
	RoleCourier = "courier"
)

// 派单动作常量（ClaimAuthorizer 的 action 维度）
const (
	ActionView     = "view"
	ActionReceive  = "receive"
	ActionConfirm  = "confirm"
	ActionMark     = "mark"
	ActionDispatch = "dispatch"
	ActionCheckIn  = "check_in"
	ActionAddTrace = "add_trace"
	ActionVerify   = "verify"
)

// 商户配置键常量
const (
	MerchantConfigDeliveryOrderStatus = "mer_delivery_order_status" // 自配送接单开关
	MerchantConfigEnableAssigned      = "enable_assigned"           // 指派模式（1 = 关闭公共接单池）
	MerchantConfigEnableCheckin       = "enable_checkin"            // 上门打卡开关
	MerchantConfigCheckinRadius       = "checkin_radius"            // 打卡半径（米）
	MerchantConfigEnableTrace         = "enable_trace"              // 服务凭证开关
	MerchantConfigTraceFormID         = "trace_form_id"             // 凭证表单 ID
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskOrderClaimed    = "dispatch:order_claimed"
	TaskOrderDispatched = "dispatch:order_dispatched"
	TaskOrderConfirmed  = "dispatch:order_confirmed"
	TaskOrderCheckedIn  = "dispatch:order_checked_in"
	TaskOrderVerified   = "dispatch:order_verified"
)

// 通知事件常量（任务载荷里的 event 字段）
const (
	EventOrderClaimed    = "order_claimed"
	EventOrderDispatched = "order_dispatched"
	EventOrderConfirmed  = "order_confirmed"
	EventOrderCheckedIn  = "order_checked_in"
	EventOrderVerified   = "order_verified"
)

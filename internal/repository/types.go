package repository

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page             int
	PageSize         int
	MerIDs           []uint
	Statuses         []int
	OrderType        *int
	StaffsIDs        []uint
	OnlyUnassigned   bool
	PaidOnly         bool
	Keyword          string
	ReservationDate  string
	WithDelivery     bool
	HasDelivery      bool
	DeliveryStatuses []int
	ServiceIDs       []uint
}

// StaffListFilter 查询核销员列表的过滤条件
type StaffListFilter struct {
	Page        int
	PageSize    int
	MerID       uint
	Keyword     string
	Status      *int
	OnlyTrashed bool
}

// ServiceListFilter 查询客服/配送员列表的过滤条件
type ServiceListFilter struct {
	Page         int
	PageSize     int
	MerID        uint
	Keyword      string
	Status       *int
	DeliveryOnly bool
}

// MerchantListFilter 查询商户列表的过滤条件
type MerchantListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Status   *int
}

package constants

const (
	//分頁
	DefaultPagingSize int = 10
	DefaultPaging     int = 1
	MaxPagingSize     int = 100
)

// for api auth
type ContextKey string

const (
	AuthorizationHeaderKey  ContextKey = "authorization"
	AuthorizationTypeBearer ContextKey = "bearer"
	AuthUserKey             ContextKey = "auth_user"
)

type SessionDurationHour int

const (
	SessionDuration SessionDurationHour = 72
)

type RequestID string

const (
	RequestIDKey RequestID = "request_id"
)

const (
	// 訂單編號前綴
	OrderNumberPrefix = "ORD"
	// 預設幣別
	DefaultCurrency = "USD"
)

// 價格驗證容許誤差 0.01 元
const PriceEpsilon = "0.01"

package domain

// Query parameter names injected into rewritten subscription URLs.
const (
	ParamTarget = "target"
	ParamUDP    = "udp"
	ParamSCV    = "scv"
	ParamConfig = "config"
)

// SubscriptionPath replaces the path of every rewritten target URL.
const SubscriptionPath = "/sub"

// StaticDefaults are the fixed-value defaults, applied in this order before ParamConfig.
var StaticDefaults = []struct {
	Name  string
	Value string
}{
	{ParamTarget, "clash"},
	{ParamUDP, "true"},
	{ParamSCV, "true"},
}

//go:build !debug

package komorebi

// DefaultSubscriberSocket is the well-known subscriber socket name for
// release builds. Debug builds use a distinct name so a development
// instance can run alongside a production one.
const DefaultSubscriberSocket = "wsmirror.sock"

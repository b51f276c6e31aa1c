//go:build debug

package komorebi

// DefaultSubscriberSocket for debug builds, kept distinct from the release
// name so concurrent instances do not steal each other's notifications.
const DefaultSubscriberSocket = "wsmirror-debug.sock"

//go:build !linux

package preview

// ApplyKeepAbove is a no-op outside X11 platforms.
func ApplyKeepAbove() error {
	return nil
}

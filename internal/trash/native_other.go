//go:build !windows

package trash

func nativeTrasher() Trasher {
	return nil
}

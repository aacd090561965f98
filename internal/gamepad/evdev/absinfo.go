//go:build linux

package evdev

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// absInfo mirrors struct input_absinfo
type absInfo struct {
	Value      int32
	Min        int32
	Max        int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// ioctl request encoding (Linux _IOC macro)
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocRead = 2
)

func ioc(dir, typ, nr, size uint32) uintptr {
	return uintptr((dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift))
}

// evioCGAbs is EVIOCGABS(abs) = _IOR('E', 0x40 + abs, struct input_absinfo)
func evioCGAbs(code int) uintptr {
	return ioc(iocRead, uint32('E'), uint32(0x40+code), uint32(unsafe.Sizeof(absInfo{})))
}

// axisRange maps raw axis values onto [-1, 1]
type axisRange struct {
	min, max, value int32
}

func readAxisRange(fd int, code int) (axisRange, error) {
	var info absInfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), evioCGAbs(code), uintptr(unsafe.Pointer(&info)))
	if errno != 0 {
		return axisRange{min: -1, max: 1}, errno
	}
	return axisRange{min: info.Min, max: info.Max, value: info.Value}, nil
}

func (r axisRange) normalize(raw int32) float64 {
	if r.max <= r.min {
		return 0
	}
	v := 2*float64(raw-r.min)/float64(r.max-r.min) - 1
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

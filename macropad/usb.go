package macropad

import (
	"context"
	"time"

	"github.com/google/gousb"
	log "github.com/sirupsen/logrus"
)

const (
	// VID and PID of the 12-key + 2-knob macro pad (WCH CH552G based).
	VID gousb.ID = 0x1189
	PID gousb.ID = 0x8840
)

// LocalMacroPad is an exclusively owned session on the physical pad. The
// firmware has no request correlation IDs, so the session is strictly
// sequential: one frame at a time, with the settle pause between frames.
// It is not safe for concurrent use and is not meant to be.
type LocalMacroPad struct {
	UsbCtx   *gousb.Context
	Dev      *gousb.Device
	Config   *gousb.Config
	IfaceOut *gousb.Interface
	IfaceIn  *gousb.Interface
	EpOut    *gousb.OutEndpoint
	EpIn     *gousb.InEndpoint

	capture *Capture
}

// NewLocalMacroPad finds the pad on USB, detaches the kernel HID driver and
// claims the interrupt OUT (and, when present, IN) endpoints. The returned
// session must be Closed to release the device.
func NewLocalMacroPad() (*LocalMacroPad, error) {
	res := &LocalMacroPad{}
	res.UsbCtx = gousb.NewContext()

	var err error
	res.Dev, err = res.UsbCtx.OpenDeviceWithVIDPID(VID, PID)
	if err != nil || res.Dev == nil {
		res.Close()
		return nil, transportErrorf("no macro pad (%04x:%04x) found, plug it in or check permissions", uint16(VID), uint16(PID))
	}
	log.Debugf("macro pad found: %s", res.Dev.Desc.String())

	// The pad enumerates as a plain HID keyboard plus the vendor interface;
	// the kernel grabs both.
	res.Dev.SetAutoDetach(true)

	res.Config, err = res.Dev.Config(1)
	if err != nil {
		res.Close()
		return nil, transportErrorf("claiming device config 1: %v", err)
	}

Outer:
	for _, ifaceDesc := range res.Config.Desc.Interfaces {
		for _, ifaceSettings := range ifaceDesc.AltSettings {
			for _, epDesc := range ifaceSettings.Endpoints {
				if epDesc.TransferType != gousb.TransferTypeInterrupt || epDesc.Direction != gousb.EndpointDirectionOut {
					continue
				}
				res.IfaceOut, err = res.Config.Interface(ifaceSettings.Number, ifaceSettings.Alternate)
				if err != nil {
					res.Close()
					return nil, transportErrorf("claiming interface %d: %v", ifaceSettings.Number, err)
				}
				res.EpOut, err = res.IfaceOut.OutEndpoint(epDesc.Number)
				if err != nil {
					res.Close()
					return nil, transportErrorf("opening interrupt OUT endpoint: %v", err)
				}
				log.Debugf("interrupt OUT endpoint: %s", res.EpOut.String())

				// Prefer the IN endpoint of the same interface, if it has one.
				for _, inDesc := range ifaceSettings.Endpoints {
					if inDesc.TransferType == gousb.TransferTypeInterrupt && inDesc.Direction == gousb.EndpointDirectionIn {
						if res.EpIn, err = res.IfaceOut.InEndpoint(inDesc.Number); err == nil {
							log.Debugf("interrupt IN endpoint: %s", res.EpIn.String())
						}
						break
					}
				}
				break Outer
			}
		}
	}
	if res.EpOut == nil {
		res.Close()
		return nil, transportErrorf("no interrupt OUT endpoint found")
	}

	if res.EpIn == nil {
		// Some firmware revisions expose the read channel on a separate
		// interface. Writing still works without one; reading won't.
		res.findSeparateInEndpoint()
	}
	if res.EpIn == nil {
		log.Warn("no interrupt IN endpoint found, programming works but read-back is unavailable")
	}

	return res, nil
}

func (u *LocalMacroPad) findSeparateInEndpoint() {
	for _, ifaceDesc := range u.Config.Desc.Interfaces {
		if u.IfaceOut != nil && ifaceDesc.Number == u.IfaceOut.Setting.Number {
			continue
		}
		for _, ifaceSettings := range ifaceDesc.AltSettings {
			for _, epDesc := range ifaceSettings.Endpoints {
				if epDesc.TransferType != gousb.TransferTypeInterrupt || epDesc.Direction != gousb.EndpointDirectionIn {
					continue
				}
				iface, err := u.Config.Interface(ifaceSettings.Number, ifaceSettings.Alternate)
				if err != nil {
					continue
				}
				ep, err := iface.InEndpoint(epDesc.Number)
				if err != nil {
					iface.Close()
					continue
				}
				u.IfaceIn = iface
				u.EpIn = ep
				log.Debugf("interrupt IN endpoint (separate interface): %s", ep.String())
				return
			}
		}
	}
}

// SetCapture attaches a packet capture; every frame sent from now on is
// recorded. Pass nil to detach.
func (u *LocalMacroPad) SetCapture(c *Capture) {
	u.capture = c
}

// SendFrame writes one report to the interrupt OUT endpoint and then waits
// the frame's settle interval. Skipping the pause makes the firmware
// silently drop writes, so the pacing lives here and not with the caller.
func (u *LocalMacroPad) SendFrame(f Frame) error {
	if u.capture != nil {
		if err := u.capture.Record(f); err != nil {
			return err
		}
	}
	if _, err := u.EpOut.Write(f.Data[:]); err != nil {
		return transportErrorf("writing report: %v", err)
	}
	time.Sleep(f.Settle)
	return nil
}

// ReceiveReport reads one input report from the interrupt IN endpoint.
func (u *LocalMacroPad) ReceiveReport(timeout time.Duration) ([]byte, error) {
	if u.EpIn == nil {
		return nil, transportErrorf("device has no interrupt IN endpoint")
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	buf := make([]byte, ReportSize)
	n, err := u.EpIn.ReadContext(ctx, buf)
	if err != nil {
		return nil, transportErrorf("reading report: %v", err)
	}
	return buf[:n], nil
}

// CanRead reports whether the device exposes the read-back channel.
func (u *LocalMacroPad) CanRead() bool {
	return u.EpIn != nil
}

// Close releases endpoints, interfaces, the device handle and the USB
// context. Safe to call on a partially opened session.
func (u *LocalMacroPad) Close() {
	if u.IfaceIn != nil {
		u.IfaceIn.Close()
	}
	if u.IfaceOut != nil {
		u.IfaceOut.Close()
	}
	if u.Config != nil {
		u.Config.Close()
	}
	if u.Dev != nil {
		u.Dev.SetAutoDetach(false)
		u.Dev.Close()
	}
	if u.UsbCtx != nil {
		u.UsbCtx.Close()
	}
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mstarongithub/way2gay/internal/core"
	"github.com/mstarongithub/way2gay/tiler"
	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
	"github.com/swaywm/go-wlroots/xkb"
)

type CursorMode int

const (
	CursorModePassThrough CursorMode = iota
	CursorModeMove
	CursorModeResize
)

// Server owns the wlroots bring-up and every protocol-facing listener;
// window placement, focus, and commit sequencing are delegated to
// root, the process-singleton transaction engine.
type Server struct {
	display     wlroots.Display
	backend     wlroots.Backend
	renderer    wlroots.Renderer
	allocator   wlroots.Allocator
	scene       wlroots.Scene
	sceneLayout wlroots.SceneOutputLayout

	xdgShell           wlroots.XDGShell
	outputManager      wlroots.OutputManagerV1
	outputPowerManager wlroots.OutputPowerManagerV1
	layerShell         wlroots.LayerShellV1
	sessionLockManager wlroots.SessionLockManagerV1

	cursor    wlroots.Cursor
	cursorMgr wlroots.XCursorManager

	seat            wlroots.Seat
	keyboards       []*Keyboard
	cursorMode      CursorMode
	grabbedTopLevel *wlroots.XDGTopLevel
	grabX, grabY    float64
	grabGeobox      wlroots.GeoBox
	resizeEdges     wlroots.Edges

	outputLayout wlroots.OutputLayout

	root        *core.Root
	seatAdapter *compositorSeat
	timer       *wallTimer
	configPub   *ipcConfigPublisher

	// coreOutputs maps a backend output to the core bookkeeping object
	// and per-output tiler tree wlroots.Output isn't comparable to a map
	// key of its own accord in every binding, so this is keyed by name.
	coreOutputs map[string]*core.Output
	generators  map[string]*tiler.Generator
}

type Keyboard struct {
	dev wlroots.InputDevice
}

func (server *Server) handleNewPointer(dev wlroots.InputDevice) {
	server.cursor.AttachInputDevice(dev)
}

func (server *Server) handleKey(keyboard wlroots.Keyboard, time uint32, keyCode uint32, updateState bool, state wlroots.KeyState) {
	syms := keyboard.XKBState().Syms(xkb.KeyCode(keyCode + 8))

	handled := false
	modifiers := keyboard.Modifiers()
	if (modifiers&wlroots.KeyboardModifierAlt != 0) && state == wlroots.KeyStatePressed {
		for _, sym := range syms {
			handled = server.handleKeyBinding(sym)
		}
	}

	if !handled {
		server.seat.SetKeyboard(keyboard.Base())
		server.seat.NotifyKeyboardKey(time, keyCode, state)
	}
}

func (server *Server) handleNewKeyboard(dev wlroots.InputDevice) {
	keyboard := dev.Keyboard()

	context := xkb.NewContext(xkb.KeySymFlagNoFlags)
	keymap := context.KeyMap()
	keyboard.SetKeymap(keymap)
	keymap.Destroy()
	context.Destroy()
	keyboard.SetRepeatInfo(25, 600)

	keyboard.OnModifiers(func(keyboard wlroots.Keyboard) {
		server.seat.SetKeyboard(dev)
		server.seat.NotifyKeyboardModifiers(keyboard)
	})
	keyboard.OnKey(server.handleKey)

	server.seat.SetKeyboard(dev)
	server.keyboards = append(server.keyboards, &Keyboard{dev: dev})
}

func (server *Server) handleNewInput(dev wlroots.InputDevice) {
	switch dev.Type() {
	case wlroots.InputDeviceTypePointer:
		server.handleNewPointer(dev)
	case wlroots.InputDeviceTypeKeyboard:
		server.handleNewKeyboard(dev)
	}

	caps := wlroots.SeatCapabilityPointer
	if len(server.keyboards) > 0 {
		caps |= wlroots.SeatCapabilityKeyboard
	}
	server.seat.SetCapabilities(caps)
}

func (server *Server) handleNewFrame(output wlroots.Output) {
	sOut, err := server.scene.SceneOutput(output)
	if err != nil {
		return
	}
	sOut.Commit()
	sOut.SendFrameDone(time.Now())
}

func (server *Server) handleOutputRequestState(output wlroots.Output, state wlroots.OutputState) {
	logrus.WithFields(logrus.Fields{"output": output, "state": state}).Debugln("new state request for output")
	output.CommitState(state)
}

func (server *Server) handleOutputDestroy(output wlroots.Output) {
	logrus.WithField("name", output.Name()).Debugln("output getting destroyed")
	o, ok := server.coreOutputs[output.Name()]
	if !ok {
		return
	}
	server.root.RemoveOutput(o)
	server.root.Registry().Unregister(o)
	delete(server.coreOutputs, output.Name())
	delete(server.generators, output.Name())
}

// handleNewOutput brings a backend output up to speed (render init,
// preferred mode, frame/destroy listeners), then registers a
// core.Output with the transaction engine and hands it a fresh tiler
// tree as its layout generator.
func (server *Server) handleNewOutput(output wlroots.Output) {
	logrus.WithField("name", output.Name()).Debugln("new output added")

	output.InitRender(server.allocator, server.renderer)

	oState := wlroots.NewOutputState()
	oState.StateInit()
	oState.StateSetEnabled(true)

	mode, err := output.PrefferedMode()
	if err == nil {
		oState.SetMode(mode)
	}

	output.CommitState(oState)
	oState.Finish()

	output.OnFrame(server.handleNewFrame)
	output.OnRequestState(server.handleOutputRequestState)
	output.OnDestroy(server.handleOutputDestroy)

	if err := output.SetTitle(fmt.Sprintf("way2gay - %s", output.Name())); err != nil {
		logrus.WithError(err).Warn("setting output title")
	}

	o := core.NewOutput(output, server.root.Scene())
	w, h := output.EffectiveResolution()
	tree := tiler.NewTree(tiler.Vector2i{X: w, Y: h})
	gen := tiler.NewGenerator(&tree, tiler.Vector2i{X: w, Y: h})
	o.LayoutGenerator = gen
	o.StatusPublisher = server.configPub

	server.coreOutputs[output.Name()] = o
	server.generators[output.Name()] = gen
	server.root.Registry().Register(o)
	server.root.AddOutput(o)
}

func (server *Server) handleCursorMotion(dev wlroots.InputDevice, time uint32, dx float64, dy float64) {
	server.cursor.Move(dev, dx, dy)
	server.processCursorMotion(time)
}

func (server *Server) handleCursorMotionAbsolute(dev wlroots.InputDevice, time uint32, x float64, y float64) {
	server.cursor.WarpAbsolute(dev, x, y)
	server.processCursorMotion(time)
}

func (server *Server) processCursorMotion(time uint32) {
	if server.cursorMode == CursorModeMove {
		server.processCursorMove(time)
		return
	} else if server.cursorMode == CursorModeResize {
		server.processCursorResize(time)
		return
	}

	res, ok := server.root.At(server.cursor.X(), server.cursor.Y())
	if !ok {
		server.cursor.SetXCursor(server.cursorMgr, "default")
		server.seat.ClearPointerFocus()
		return
	}
	if res.Surface.Nil() {
		server.seat.ClearPointerFocus()
		return
	}
	server.seat.NotifyPointerEnter(res.Surface, res.SX, res.SY)
	server.seat.NotifyPointerMotion(time, res.SX, res.SY)
}

func (server *Server) processCursorMove(_ uint32) {
	server.grabbedTopLevel.Base().SceneTree().Node().SetPosition(
		int32(server.cursor.X()-server.grabX), int32(server.cursor.Y()-server.grabY))
}

func (server *Server) processCursorResize(_ uint32) {
	borderX := server.cursor.X()
	borderY := server.cursor.Y()
	nLeft := server.grabGeobox.X
	nRight := server.grabGeobox.X + server.grabGeobox.Width
	nTop := server.grabGeobox.Y
	nBottom := server.grabGeobox.Y + server.grabGeobox.Height

	if server.resizeEdges&wlroots.EdgeTop != 0 {
		nTop = int(borderY)
		if nTop >= nBottom {
			nTop = nBottom - 1
		}
	} else if server.resizeEdges&wlroots.EdgeBottom != 0 {
		nBottom = int(borderY)
		if nBottom <= nTop {
			nBottom = nTop + 1
		}
	}

	if server.resizeEdges&wlroots.EdgeLeft != 0 {
		nLeft = int(borderX)
		if nLeft >= nRight {
			nLeft = nRight - 1
		}
	} else if server.resizeEdges&wlroots.EdgeRight != 0 {
		nRight = int(borderX)
		if nRight <= nLeft {
			nRight = nLeft + 1
		}
	}

	nWidth := nRight - nLeft
	nHeight := nBottom - nTop
	server.grabbedTopLevel.Base().TopLevelSetSize(uint32(nWidth), uint32(nHeight))
}

func (server *Server) handleSetCursorRequest(client wlroots.SeatClient, surface wlroots.Surface, _ uint32, hotspotX int32, hotspotY int32) {
	focusedClient := server.seat.PointerState().FocusedClient()
	if focusedClient == client {
		server.cursor.SetSurface(surface, hotspotX, hotspotY)
	}
}

func (server *Server) resetCursorMode() {
	server.cursorMode = CursorModePassThrough
	server.grabbedTopLevel = nil
}

func (server *Server) handleCursorButton(_ wlroots.InputDevice, time uint32, button uint32, state wlroots.ButtonState) {
	server.seat.NotifyPointerButton(time, button, state)

	if state == wlroots.ButtonStateReleased {
		server.resetCursorMode()
		return
	}
	res, ok := server.root.At(server.cursor.X(), server.cursor.Y())
	if !ok || res.Surface.Nil() {
		return
	}
	server.seatAdapter.Focus(&res.Surface)
}

func (server *Server) handleCursorAxis(_ wlroots.InputDevice, time uint32, source wlroots.AxisSource, orientation wlroots.AxisOrientation, delta float64, deltaDiscrete int32) {
	server.seat.NotifyPointerAxis(time, orientation, delta, deltaDiscrete, source)
}

func (server *Server) handleCursorFrame() {
	server.seat.NotifyPointerFrame()
}

func (server *Server) handleKeyBinding(sym xkb.KeySym) bool {
	switch sym {
	case xkb.KeySymEscape:
		server.display.Terminate()
	case xkb.KeySymF1:
		server.cycleFocus()
	default:
		return false
	}
	return true
}

// cycleFocus moves keyboard focus to the view right behind the front of
// the focused output's current focus stack. It does not wrap around to
// the back of the stack.
func (server *Server) cycleFocus() {
	o := server.seatAdapter.FocusedOutput()
	if o == nil {
		return
	}
	views := o.Stacks().Current.Focus.Views()
	if len(views) < 2 {
		return
	}
	next := views[1].Impl.Surface()
	server.seatAdapter.Focus(&next)
}

func (server *Server) handleMapXDGToplevel(xdgSurface wlroots.XDGSurface) {
	topLevel := xdgSurface.TopLevel()
	impl := &xdgViewImpl{surface: xdgSurface, topLevel: topLevel}

	tree := core.NewXDGSurfaceTree(server.root.Scene().Outputs, xdgSurface)
	popupTree := server.root.Scene().Outputs.TreeCreate()
	view := core.NewView(impl, tree, popupTree)
	impl.view = view

	xdgSurface.SetData(view)
	server.root.BindView(view)

	o := server.seatAdapter.FocusedOutput()
	if o == nil {
		o = server.root.Registry().First()
	}
	if o != nil {
		view.Pending.Tags = o.Pending.Tags
		if view.Pending.Tags == 0 {
			view.Pending.Tags = 1
		}
		view.SetPendingOutput(o, &server.root.Scene().HiddenStacks)
		if appID := topLevel.AppID(); appID != "" {
			if gen, ok := server.generators[outputNameOf(server, o)]; ok {
				gen.AddApp(appID)
			}
		}
	}

	server.root.ApplyPending()

	surface := xdgSurface.Surface()
	server.seatAdapter.Focus(&surface)
}

func (server *Server) handleUnMapXDGToplevel(xdgSurface wlroots.XDGSurface) {
	topLevel := xdgSurface.TopLevel()
	if server.grabbedTopLevel != nil && topLevel == *server.grabbedTopLevel {
		server.resetCursorMode()
	}

	view, ok := xdgSurface.Data().(*core.View)
	if !ok {
		return
	}
	view.Destroying = true
	view.SetPendingOutput(nil, &server.root.Scene().HiddenStacks)
	if appID := topLevel.AppID(); appID != "" {
		for _, gen := range server.generators {
			gen.RemoveApp(appID, true)
		}
	}
	server.root.ApplyPending()
}

func (server *Server) handleAckConfigure(xdgSurface wlroots.XDGSurface, serial uint32) {
	view, ok := xdgSurface.Data().(*core.View)
	if !ok {
		return
	}
	if view.InflightSerial != 0 && view.InflightSerial == serial {
		server.root.NotifyConfigured(view)
	}
}

func (server *Server) handleNewXDGSurface(xdgSurface wlroots.XDGSurface) {
	logrus.WithField("surface", xdgSurface).Debugln("new surface inbound")

	if xdgSurface.Role() == wlroots.XDGSurfaceRolePopup {
		parent := xdgSurface.Popup().Parent()
		if parent.Nil() {
			logrus.WithField("surface", xdgSurface).Fatalln("xdgSurface popup parent is nil")
		}
		xdgSurface.SetData(parent.XDGSurface().SceneTree().NewXDGSurface(xdgSurface))
		return
	}
	if xdgSurface.Role() != wlroots.XDGSurfaceRoleTopLevel {
		logrus.WithFields(logrus.Fields{"surface": xdgSurface, "role": xdgSurface.Role()}).Fatalln("xdgSurface role is not XDGSurfaceRoleTopLevel")
	}

	xdgSurface.OnMap(server.handleMapXDGToplevel)
	xdgSurface.OnUnmap(server.handleUnMapXDGToplevel)
	xdgSurface.OnAckConfigure(server.handleAckConfigure)
	xdgSurface.OnDestroy(func(surface wlroots.XDGSurface) {})

	toplevel := xdgSurface.TopLevel()
	toplevel.OnRequestMove(func(client wlroots.SeatClient, serial uint32) {
		server.beginInteractive(&toplevel, CursorModeMove, 0)
	})
	toplevel.OnRequestResize(func(client wlroots.SeatClient, serial uint32, edges wlroots.Edges) {
		server.beginInteractive(&toplevel, CursorModeResize, edges)
	})
}

func (server *Server) beginInteractive(topLevel *wlroots.XDGTopLevel, mode CursorMode, edges wlroots.Edges) {
	if topLevel.Base().Surface() != server.seat.PointerState().FocusedSurface() {
		return
	}
	server.grabbedTopLevel = topLevel
	server.cursorMode = mode

	if mode == CursorModeMove {
		server.grabX = server.cursor.X() - float64(topLevel.Base().SceneTree().Node().X())
		server.grabY = server.cursor.Y() - float64(topLevel.Base().SceneTree().Node().Y())
	} else {
		box := topLevel.Base().Geometry()
		r := 0
		if edges&wlroots.EdgeRight != 0 {
			r = box.Width
		}
		b := 0
		if edges&wlroots.EdgeBottom != 0 {
			b = box.Height
		}
		borderX := (topLevel.Base().SceneTree().Node().X() + box.X) + r
		borderY := (topLevel.Base().SceneTree().Node().Y() + box.Y) + b
		server.grabX = server.cursor.X() + float64(borderX)
		server.grabY = server.cursor.Y() + float64(borderY)
		server.grabGeobox = box
		server.grabGeobox.X += topLevel.Base().SceneTree().Node().X()
		server.grabGeobox.Y += topLevel.Base().SceneTree().Node().Y()
		server.resizeEdges = edges
	}
}

// GetOutputs returns every output the transaction engine currently
// knows about, active or not, for the REPL and tool-mode CLI.
func (server *Server) GetOutputs() []*core.Output {
	return server.root.Registry().All()
}

func outputNameOf(server *Server, o *core.Output) string {
	for name, co := range server.coreOutputs {
		if co == o {
			return name
		}
	}
	return ""
}

func NewServer() (server *Server, err error) {
	server = new(Server)
	server.coreOutputs = make(map[string]*core.Output)
	server.generators = make(map[string]*tiler.Generator)

	server.display = wlroots.NewDisplay()

	server.backend, err = server.display.BackendAutocreate()
	if err != nil {
		return nil, err
	}

	server.renderer, err = server.backend.RendererAutoCreate()
	if err != nil {
		return nil, err
	}
	server.renderer.InitDisplay(server.display)

	server.allocator, err = server.backend.AllocatorAutocreate(server.renderer)
	if err != nil {
		return nil, err
	}

	server.display.CompositorCreate(5, server.renderer)
	server.display.SubCompositorCreate()
	server.display.DataDeviceManagerCreate()

	server.outputLayout = wlroots.NewOutputLayout()
	server.backend.OnNewOutput(server.handleNewOutput)

	server.scene = wlroots.NewScene()
	server.sceneLayout = server.scene.AttachOutputLayout(server.outputLayout)

	server.xdgShell = server.display.XDGShellCreate(3)
	server.xdgShell.OnNewSurface(server.handleNewXDGSurface)

	server.outputManager = server.display.OutputManagerV1Create()
	server.outputManager.OnTest(server.handleOutputManagerTest)
	server.outputManager.OnApply(server.handleOutputManagerApply)

	server.outputPowerManager = server.display.OutputPowerManagerV1Create()
	server.outputPowerManager.OnSetMode(server.handleOutputPowerSetMode)

	server.layerShell = server.display.LayerShellV1Create()
	server.layerShell.OnNewSurface(server.handleNewLayerSurface)

	server.sessionLockManager = server.display.SessionLockManagerV1Create()
	server.sessionLockManager.OnNewLock(server.handleNewSessionLock)

	server.cursor = wlroots.NewCursor()
	server.cursor.AttachOutputLayout(server.outputLayout)
	server.cursorMgr = wlroots.NewXCursorManager("", 24)

	server.cursorMode = CursorModePassThrough
	server.cursor.OnMotion(server.handleCursorMotion)
	server.cursor.OnMotionAbsolute(server.handleCursorMotionAbsolute)
	server.cursor.OnButton(server.handleCursorButton)
	server.cursor.OnAxis(server.handleCursorAxis)
	server.cursor.OnFrame(server.handleCursorFrame)
	server.cursorMgr.Load(1)

	server.backend.OnNewInput(server.handleNewInput)
	server.seat = server.display.SeatCreate("seat0")
	server.seat.OnSetCursorRequest(server.handleSetCursorRequest)

	sceneRoot := core.WrapSceneTree(server.scene.Tree())
	server.configPub = newIPCConfigPublisher()
	server.seatAdapter = &compositorSeat{server: server}
	server.timer = newWallTimer(func() { server.root.OnTimerExpire() })
	server.root = core.NewRoot(sceneRoot, server.outputLayout, server.sceneLayout, server.timer, server.configPub)
	server.root.AddSeat(server.seatAdapter)

	return
}

func (server *Server) Start() error {
	socket, err := server.display.AddSocketAuto()
	if err != nil {
		server.backend.Destroy()
		return err
	}
	logrus.WithField("socket", socket).Debugln("got wl socket")
	if err = server.backend.Start(); err != nil {
		server.backend.Destroy()
		server.display.Destroy()
		return err
	}

	if res := os.Getenv("WAYLAND_DISPLAY"); res != "" {
		logrus.WithField("WAYLAND_DISPLAY", res).Debugln("wayland display already set, overwriting")
	}
	if err = os.Setenv("WAYLAND_DISPLAY", socket); err != nil {
		return err
	}

	logrus.WithField("WAYLAND_DISPLAY", socket).Infoln("running way2gay")
	return err
}

func (server *Server) Run() error {
	server.display.Run()

	server.display.DestroyClients()
	server.root.Deinit()
	server.scene.Tree().Node().Destroy()
	server.cursorMgr.Destroy()
	server.outputLayout.Destroy()
	server.display.Destroy()
	return nil
}

func (server *Server) Stop() {
	server.display.Terminate()
}

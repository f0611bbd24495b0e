// ui.go — Editor chrome state. None of it affects the exported image.
package editor

// Tab is a settings panel section.
type Tab string

const (
	TabBackground Tab = "background"
	TabFrame      Tab = "frame"
	TabAdjust     Tab = "adjust"
	TabOverlay    Tab = "overlay"
)

var tabs = map[Tab]bool{TabBackground: true, TabFrame: true, TabAdjust: true, TabOverlay: true}

type UIState struct {
	SidebarOpen bool `json:"sidebarOpen"`
	ActiveTab   Tab  `json:"activeTab"`
	Fullscreen  bool `json:"fullscreen"`
	ProModal    bool `json:"proModal"`
}

func DefaultUIState() UIState {
	return UIState{SidebarOpen: true, ActiveTab: TabBackground}
}

func (s *Session) UI() UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ui
}

func (s *Session) ToggleSidebar() UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.SidebarOpen = !s.ui.SidebarOpen
	return s.ui
}

// SetTab switches the active tab; unknown tabs are ignored.
func (s *Session) SetTab(t Tab) (UIState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !tabs[t] {
		return s.ui, false
	}
	s.ui.ActiveTab = t
	return s.ui, true
}

func (s *Session) SetFullscreen(on bool) UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.Fullscreen = on
	return s.ui
}

func (s *Session) SetProModal(open bool) UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.ProModal = open
	return s.ui
}

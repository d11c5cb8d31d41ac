package connectivity

import "testing"

func TestAlwaysOnline(t *testing.T) {
	if (AlwaysOnline{}).Offline() {
		t.Fatal("AlwaysOnline reported offline")
	}
}

func TestFlag_InitialState(t *testing.T) {
	if NewFlag(true).Offline() {
		t.Fatal("flag initialized online reported offline")
	}
	if !NewFlag(false).Offline() {
		t.Fatal("flag initialized offline reported online")
	}
}

func TestFlag_NotifiesOnRestore(t *testing.T) {
	f := NewFlag(false)
	calls := 0
	f.Subscribe(func() { calls++ })

	f.SetOnline(true)
	if calls != 1 {
		t.Fatalf("calls = %d after offline-to-online, want 1", calls)
	}
	if f.Offline() {
		t.Fatal("flag still offline after SetOnline(true)")
	}
}

func TestFlag_NoNotifyWithoutTransition(t *testing.T) {
	f := NewFlag(true)
	calls := 0
	f.Subscribe(func() { calls++ })

	f.SetOnline(true)  // online -> online
	f.SetOnline(false) // online -> offline
	f.SetOnline(false) // offline -> offline
	if calls != 0 {
		t.Fatalf("calls = %d, want 0 (only restoration notifies)", calls)
	}

	f.SetOnline(true)
	if calls != 1 {
		t.Fatalf("calls = %d after restoration, want 1", calls)
	}
}

func TestFlag_SubscribeCancel(t *testing.T) {
	f := NewFlag(false)
	calls := 0
	cancel := f.Subscribe(func() { calls++ })
	cancel()

	f.SetOnline(true)
	if calls != 0 {
		t.Fatalf("cancelled subscriber was invoked %d times", calls)
	}
}

package ptp

import (
	"encoding/binary"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/holoplot/go-multicast/pkg/multicast"

	"github.com/holoplot/clockcast/internal/offset"
)

// Announce flag bits in the second octet of the header flagField.
const (
	flagLeap61         = 1 << 0
	flagLeap59         = 1 << 1
	flagUTCOffsetValid = 1 << 2
	flagPTPTimescale   = 1 << 3
)

type Transmitter struct {
	Domain        uint8
	LastTimestamp Timestamp
	IfiName       string

	// From the most recent Announce message.
	Announced      bool
	UTCOffset      time.Duration
	UTCOffsetValid bool
	PTPTimescale   bool
	Leap61         bool
	Leap59         bool
}

// CheckUTCOffset compares the announced TAI-UTC offset with the table at the
// transmitter's last timestamp. It returns the table offset and whether the
// two agree; transmitters without a valid announced offset always agree.
// The lookup goes by TAI label, so a timestamp inside an inserted leap
// second still compares against the offset in force before it.
func (t *Transmitter) CheckUTCOffset(r *offset.Resolver) (time.Duration, bool) {
	tai, err := t.LastTimestamp.TAI()
	if err != nil {
		return 0, !t.UTCOffsetValid
	}

	want, err := r.Table().LookupOffsetTAI(tai.Label())
	if err != nil {
		return 0, !t.UTCOffsetValid
	}

	return want, !t.UTCOffsetValid || want == t.UTCOffset
}

type Monitor struct {
	mutex             sync.Mutex
	multicastListener *multicast.Listener
	consumers         []*multicast.Consumer
	transmitters      map[ClockIdentity]*Transmitter
}

func (m *Monitor) transmitter(id ClockIdentity, domain uint8, ifi *net.Interface) *Transmitter {
	t, ok := m.transmitters[id]
	if !ok {
		t = &Transmitter{Domain: domain}
		m.transmitters[id] = t
	}

	if ifi != nil {
		t.IfiName = ifi.Name
	}

	return t
}

func (m *Monitor) parsePacket(ifi *net.Interface, _ net.Addr, data []byte) {
	now := time.Now()

	if len(data) < 44 {
		return
	}

	messageType := data[0] & 0xf
	domainNumber := data[4]
	flags := data[7]

	var clockIdentity ClockIdentity
	copy(clockIdentity.octets[:], data[20:28])

	m.mutex.Lock()
	defer m.mutex.Unlock()

	switch messageType {
	case messageTypeSync, messageTypeFollowUp:
		timeStamp := Timestamp{
			Time: now,
		}

		copy(timeStamp.PTP[:], data[34:44])

		if timeStamp.IsZero() {
			return
		}

		m.transmitter(clockIdentity, domainNumber, ifi).LastTimestamp = timeStamp

	case messageTypeAnnounce:
		if len(data) < 46 {
			return
		}

		t := m.transmitter(clockIdentity, domainNumber, ifi)
		t.Announced = true
		t.UTCOffset = time.Duration(int16(binary.BigEndian.Uint16(data[44:46]))) * time.Second
		t.UTCOffsetValid = flags&flagUTCOffsetValid != 0
		t.PTPTimescale = flags&flagPTPTimescale != 0
		t.Leap61 = flags&flagLeap61 != 0
		t.Leap59 = flags&flagLeap59 != 0
	}
}

func (m *Monitor) ForEachTransmitter(fn func(ClockIdentity, *Transmitter)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var clockIDs []ClockIdentity
	for id := range m.transmitters {
		clockIDs = append(clockIDs, id)
	}

	sort.Slice(clockIDs, func(i, j int) bool {
		return clockIDs[i].String() < clockIDs[j].String()
	})

	for _, id := range clockIDs {
		fn(id, m.transmitters[id])
	}
}

func newMonitor() *Monitor {
	return &Monitor{
		transmitters: make(map[ClockIdentity]*Transmitter),
	}
}

// NewMonitor listens for PTP event (319) and general (320) messages on the
// given interfaces.
func NewMonitor(ifis []*net.Interface) (*Monitor, error) {
	m := newMonitor()
	m.multicastListener = multicast.NewListener(ifis)

	for _, port := range []int{319, 320} {
		addr := &net.UDPAddr{
			IP:   net.IPv4(224, 0, 1, 129),
			Port: port,
		}

		c, err := m.multicastListener.AddConsumer(addr, m.parsePacket)
		if err != nil {
			m.Close()
			return nil, err
		}

		m.consumers = append(m.consumers, c)
	}

	return m, nil
}

// Close stops listening. It is safe to call more than once.
func (m *Monitor) Close() {
	m.mutex.Lock()
	consumers := m.consumers
	m.consumers = nil
	m.mutex.Unlock()

	for _, c := range consumers {
		m.multicastListener.RemoveConsumer(c)
	}
}

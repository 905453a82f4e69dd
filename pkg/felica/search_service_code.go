package felica

import "fmt"

// ServiceKind is the payload shape a Service's blocks hold.
type ServiceKind int

const (
	ServiceRandom ServiceKind = iota
	ServiceCyclic
	ServicePurse
	ServiceKindUnknown
)

func (k ServiceKind) String() string {
	switch k {
	case ServiceRandom:
		return "Random"
	case ServiceCyclic:
		return "Cyclic"
	case ServicePurse:
		return "Purse"
	default:
		return "Unknown"
	}
}

// ServiceAccess is how a Service's blocks may be read or written.
type ServiceAccess int

const (
	AccessReadWrite ServiceAccess = iota
	AccessReadOnly
	AccessPurseDirect
	AccessPurseCashback
	AccessPurseDecrement
	AccessUnknown
)

func (a ServiceAccess) String() string {
	switch a {
	case AccessReadWrite:
		return "Read/Write"
	case AccessReadOnly:
		return "Read-Only"
	case AccessPurseDirect:
		return "Purse Direct"
	case AccessPurseCashback:
		return "Purse Cashback"
	case AccessPurseDecrement:
		return "Purse Decrement"
	default:
		return "Unknown"
	}
}

// ServiceCode is a 16-bit code naming one Service within a System: the high
// 10 bits are a Service Number, the low 6 bits an attribute encoding the
// kind/access/authentication-required triple.
type ServiceCode struct {
	Code            uint16
	Number          uint16
	Kind            ServiceKind
	Access          ServiceAccess
	IsAuthenticated bool
}

// decodeServiceAttribute maps the low 6 bits of a Service Code to its
// kind/access/auth triple, per the well-known FeliCa service attribute table.
func decodeServiceAttribute(attr byte) (ServiceKind, ServiceAccess, bool) {
	switch attr {
	case 0x08:
		return ServiceRandom, AccessReadWrite, false
	case 0x09:
		return ServiceRandom, AccessReadWrite, true
	case 0x0A:
		return ServiceRandom, AccessReadOnly, false
	case 0x0B:
		return ServiceRandom, AccessReadOnly, true
	case 0x0C:
		return ServiceCyclic, AccessReadWrite, false
	case 0x0D:
		return ServiceCyclic, AccessReadWrite, true
	case 0x0E:
		return ServiceCyclic, AccessReadOnly, false
	case 0x0F:
		return ServiceCyclic, AccessReadOnly, true
	case 0x10:
		return ServicePurse, AccessPurseDirect, false
	case 0x11:
		return ServicePurse, AccessPurseDirect, true
	case 0x14:
		return ServicePurse, AccessPurseCashback, false
	case 0x15:
		return ServicePurse, AccessPurseCashback, true
	case 0x18:
		return ServicePurse, AccessPurseDecrement, false
	case 0x19:
		return ServicePurse, AccessPurseDecrement, true
	case 0x1A:
		return ServicePurse, AccessReadOnly, false
	case 0x1B:
		return ServicePurse, AccessReadOnly, true
	default:
		return ServiceKindUnknown, AccessUnknown, attr&0x01 != 0
	}
}

func newServiceCode(code uint16) ServiceCode {
	attr := byte(code & 0x3F)
	kind, access, auth := decodeServiceAttribute(attr)
	return ServiceCode{
		Code:            code,
		Number:          code >> 6,
		Kind:            kind,
		Access:          access,
		IsAuthenticated: auth,
	}
}

// AreaCode is a 16-bit code naming an Area: a node in the System's tree that
// groups Services and sub-Areas under it.
type AreaCode struct {
	Code         uint16
	Number       uint16
	CanSubdivide bool
}

func newAreaCode(code uint16) AreaCode {
	return AreaCode{
		Code:         code,
		Number:       code >> 6,
		CanSubdivide: code&0x3F == 0,
	}
}

// SearchServiceCodeResult is the one variant SearchServiceCode can return at
// a given index: a Service, an Area range, or nothing (end of list).
type SearchServiceCodeResult struct {
	Service *ServiceCode
	Area    *AreaCodeRange
}

// AreaCodeRange is an Area's own code plus the end-of-range code marking the
// last node number that falls under it.
type AreaCodeRange struct {
	Code AreaCode
	End  AreaCode
}

// searchServiceCodeSentinel is returned by the card once idx runs past the
// last Area/Service under the current System.
const searchServiceCodeSentinel = 0xFFFF

// SearchServiceCode walks a System's Area/Service tree by index: call with
// idx=0, 1, 2... until the result is nil, meaning no more entries.
func (c *Client) SearchServiceCode(idm IDm, idx uint16) (*SearchServiceCodeResult, error) {
	idmBytes := idm.Bytes()
	fields := append([]byte{}, idmBytes[:]...)
	fields = append(fields, byte(idx), byte(idx>>8))

	data, err := c.call(CodeSearchServiceCode, fields)
	if err != nil {
		return nil, err
	}

	_, rest, err := parseHeader(CodeSearchServiceCodeResponse, data)
	if err != nil {
		return nil, err
	}

	switch len(rest) {
	case 2:
		code := uint16(rest[0]) | uint16(rest[1])<<8
		if code == searchServiceCodeSentinel {
			return nil, nil
		}
		svc := newServiceCode(code)
		return &SearchServiceCodeResult{Service: &svc}, nil
	case 4:
		start := uint16(rest[0]) | uint16(rest[1])<<8
		end := uint16(rest[2]) | uint16(rest[3])<<8
		return &SearchServiceCodeResult{Area: &AreaCodeRange{
			Code: newAreaCode(start),
			End:  newAreaCode(end),
		}}, nil
	default:
		return nil, fmt.Errorf("felica: SearchServiceCode response has unexpected field length %d", len(rest))
	}
}

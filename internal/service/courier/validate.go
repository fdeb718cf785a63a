// internal/service/courier/validate.go
package courier

import (
	"fmt"
	"strings"
)

// MissingFieldsError 枚举签名前校验发现的缺失字段路径。
// 出现此错误时报文不会发往承运商。
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("courier order message missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Validate 在签名前做结构校验，宁缺毋滥：任何必填字段缺失都拒绝整个报文。
// 返回 nil 表示可以签名发送。
func (m *CreateOrderMsg) Validate() error {
	var missing []string

	if m.OrderID == "" {
		missing = append(missing, "orderId")
	}
	if m.Language == "" {
		missing = append(missing, "language")
	}
	if m.MonthlyCard == "" {
		missing = append(missing, "monthlyCard")
	}
	if m.ExpressTypeID == 0 {
		missing = append(missing, "expressTypeId")
	}
	if m.PayMethod == 0 {
		missing = append(missing, "payMethod")
	}
	if m.ParcelQty < 1 {
		missing = append(missing, "parcelQty")
	}
	if m.TotalWeight <= 0 {
		missing = append(missing, "totalWeight")
	}

	if len(m.ContactInfoList) < 2 {
		missing = append(missing, "contactInfoList")
	} else {
		hasSender, hasReceiver := false, false
		for i, c := range m.ContactInfoList {
			switch c.ContactType {
			case ContactTypeSender:
				hasSender = true
			case ContactTypeReceiver:
				hasReceiver = true
			}
			prefix := fmt.Sprintf("contactInfoList[%d]", i)
			if c.Contact == "" {
				missing = append(missing, prefix+".contact")
			}
			if c.Mobile == "" {
				missing = append(missing, prefix+".mobile")
			}
			if c.Address == "" {
				missing = append(missing, prefix+".address")
			}
			if c.Region == "" {
				missing = append(missing, prefix+".region")
			}
			if c.City == "" {
				missing = append(missing, prefix+".city")
			}
		}
		if !hasSender {
			missing = append(missing, "contactInfoList.sender")
		}
		if !hasReceiver {
			missing = append(missing, "contactInfoList.receiver")
		}
	}

	if len(m.CargoDetails) < 1 {
		missing = append(missing, "cargoDetails")
	} else {
		for i, c := range m.CargoDetails {
			prefix := fmt.Sprintf("cargoDetails[%d]", i)
			if c.Name == "" {
				missing = append(missing, prefix+".name")
			}
			if c.Count < 1 {
				missing = append(missing, prefix+".count")
			}
		}
	}

	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

package models

// PayerType identifies who is sending money in a payment.
type PayerType string

const (
	PayerStudent     PayerType = "Student"
	PayerCollege     PayerType = "College"
	PayerConsultancy PayerType = "Consultancy"
	PayerAgent       PayerType = "Agent"
)

// ReceiverType identifies who is receiving money in a payment.
type ReceiverType string

const (
	ReceiverConsultancy ReceiverType = "Consultancy"
	ReceiverCollege     ReceiverType = "College"
	ReceiverAgent       ReceiverType = "Agent"
)

// PaymentMode is how the money moved.
type PaymentMode string

const (
	ModeCash         PaymentMode = "Cash"
	ModeUPI          PaymentMode = "UPI"
	ModeCard         PaymentMode = "Card"
	ModeBankTransfer PaymentMode = "BankTransfer"
	ModeCheque       PaymentMode = "Cheque"
)

// AdmissionStatus values
const (
	AdmissionPending   = "Pending"
	AdmissionConfirmed = "Confirmed"
	AdmissionCancelled = "Cancelled"
)

// User roles
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleStaff      = "staff"
)

// AgentType for the legacy single-agent field.
type AgentType string

const (
	AgentMain    AgentType = "Main"
	AgentCollege AgentType = "College"
	AgentSub     AgentType = "Sub"
)

// VoucherType categorizes the financial document.
type VoucherType string

const (
	VoucherReceipt      VoucherType = "receipt"
	VoucherPayment      VoucherType = "payment"
	VoucherAgentPayment VoucherType = "agent_payment"
	VoucherExpense      VoucherType = "expense"
)

// ReferenceKind tags what a voucher points at.
type ReferenceKind string

const (
	RefPayment      ReferenceKind = "payment"
	RefAgentPayment ReferenceKind = "agent_payment"
	RefDaybook      ReferenceKind = "daybook"
)

// DaybookType splits entries into the two P&L sides.
type DaybookType string

const (
	DaybookIncome  DaybookType = "income"
	DaybookExpense DaybookType = "expense"
)

// Daybook categories
const (
	CategoryElectricityBill          = "electricity_bill"
	CategoryWaterBill                = "water_bill"
	CategoryOfficeRent               = "office_rent"
	CategorySalary                   = "salary"
	CategoryPaidToCollege            = "paid_to_college"
	CategoryPaidToAgent              = "paid_to_agent"
	CategoryReceivedFromStudent      = "received_from_student"
	CategoryCollegeServiceCharge     = "received_from_college_service_charge"
	CategoryServiceChargeIncome      = "service_charge_income"
	CategoryMisc                     = "misc"
)

// ValidPayerTypes lists the accepted payer enum values.
var ValidPayerTypes = map[PayerType]bool{
	PayerStudent: true, PayerCollege: true, PayerConsultancy: true, PayerAgent: true,
}

// ValidReceiverTypes lists the accepted receiver enum values.
var ValidReceiverTypes = map[ReceiverType]bool{
	ReceiverConsultancy: true, ReceiverCollege: true, ReceiverAgent: true,
}

// ValidPaymentModes lists the accepted payment modes.
var ValidPaymentModes = map[PaymentMode]bool{
	ModeCash: true, ModeUPI: true, ModeCard: true, ModeBankTransfer: true, ModeCheque: true,
}

// ValidAgentTypes lists the accepted agent types.
var ValidAgentTypes = map[AgentType]bool{
	AgentMain: true, AgentCollege: true, AgentSub: true,
}

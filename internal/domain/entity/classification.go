package entity

// Classification тип пор, выведенный из соотношения сторон
type Classification string

const (
	GasOutPores                  Classification = "Gas-out pores"
	GasOutAndIntergranularPores  Classification = "Gas-out pores and Intergranular pores"
	IntergranularAndPullOutPores Classification = "Intergranular pores and Pull-Out Pores"
	EjectionPores                Classification = "Ejection pores"
	Capillaries                  Classification = "Capillaries"
	Unclassified                 Classification = "Unclassified" // соотношение вне всех диапазонов
)

// Known сообщает, попало ли соотношение в один из диапазонов.
func (c Classification) Known() bool {
	return c != "" && c != Unclassified
}

func (c Classification) String() string {
	return string(c)
}

package config

const (
	defaultDiscipline                = DisciplineUnbounded
	defaultCapacityLog2              = 10
	defaultNameFormat                = "worker-%d"
	defaultTerminationTimeoutSeconds = 30
	defaultPrometheusAddress         = ":9090"
	defaultLogLevel                  = "info"
)

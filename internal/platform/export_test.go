package platform

// LinuxInfo exposes getLinuxInfo to the external test package
var LinuxInfo = getLinuxInfo

// Copyright 2026 The sdnroute Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

const idSample = "ctrl-1"

const apiSample = `
# The address the admin API listens on. "off" disables the API.
# (default "127.0.0.1:8080")
addr = "127.0.0.1:8080"
`

const topologySample = `
# Quiet time after the last topology change before the topology is considered
# initialized and the route algorithms are re-initialized. (default 8s)
debounce = "8s"
# Capacity of the topology event queue. (default 256)
queue_size = 256
`

const routingSample = `
# The initially active unicast algorithm, "Dij" or "GA". (default "Dij")
unicast = "Dij"
# The service type of flows without a known business type. (default "HTML")
default_type = "HTML"
# Period of the port statistics poll. (default 5s)
poll_interval = "5s"
# Period of the link table debug print. (default 10s)
print_interval = "10s"

# Bandwidth floors in Mbit/s per service type.
[routing.floors]
VIDEO = 10.0
FTP = 5.0
HTML = 1.0
`

const schedulerSample = `
# Period of the drain loop. (default 1s)
interval = "1s"
# Time an admitted request suppresses identical requests. (default 50s)
window = "50s"
# Capacity of the request queue. (default 1024)
queue_size = 1024
# Number of flow installation attempts. (default 4)
install_tries = 4
`

const faultSample = `
# Replace a failed server with a server on the same switch if one exists.
# (default false)
prefer_same_switch = false

# Port type overrides. Keys are "dpid,port", values a port type name or number.
[fault.port_types]
"0000000000000003,10" = "edge_to_server"
`

const packetInSample = `
# UDP address packet-in records are received on. Empty disables the listener.
# (default "")
listen = ""
# Requests per second admitted per switch. (default 100)
rate = 100.0
# Token bucket size per switch. (default 200)
burst = 200
# Size of the host MAC cache. (default 1024)
host_cache_size = 1024
`

const inventorySample = `
gateways = [
    { ip = "10.0.0.254", mac = "00:00:00:00:00:fe" },
]
hosts = [
    { ip = "10.0.0.100", mac = "00:00:00:00:01:00", attachment = "0000000000000001,10" },
]
clusters = [
    { ip = "10.0.1.1", type = "VIDEO" },
]
servers = [
    { ip = "10.0.0.1", mac = "00:00:00:00:00:01", attachment = "0000000000000003,10", type = "VIDEO", cluster = "10.0.1.1" },
    { ip = "10.0.0.2", mac = "00:00:00:00:00:02", attachment = "0000000000000004,10", type = "VIDEO", cluster = "10.0.1.1", status = "UP" },
]
groups = [
    { ip = "224.1.1.1", members = ["10.0.0.1", "10.0.0.2"] },
]
`

/*
 * Copyright 2025 Comcast Cable Communications Management, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pro2

// /jaws/config/network
type NetworkConfig struct {
	DHCPFQDNName string `json:"dhcp_fqdn_name"`
}

// /jaws/config/info/network
type NetworkInfo struct {
	Speed                 string `json:"speed"`
	Link                  string `json:"link"`
	EthernetMACAddress    string `json:"ethernet_mac_address"`
	IPv4Address           string `json:"ipv4_address"`
	IPv4SubnetMask        string `json:"ipv4_subnet_mask"`
	IPv6AutoConfigAddress string `json:"ipv6_auto_config_address"`
}
